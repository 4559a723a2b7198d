package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegion_Validation(t *testing.T) {
	tests := []struct {
		name    string
		rname   string
		shape   string
		nodesX  []int32
		nodesY  []int32
		radius  int32
		wantErr bool
	}{
		{"empty name", "", ShapeCuboid, []int32{0, 1}, []int32{0, 1}, 0, true},
		{"mismatched nodes", "a", ShapeCuboid, []int32{0, 1}, []int32{0}, 0, true},
		{"poly too small", "a", ShapeNPoly, []int32{0, 1}, []int32{0, 1}, 0, true},
		{"cuboid one node", "a", ShapeCuboid, []int32{0}, []int32{0}, 0, true},
		{"cylinder no radius", "a", ShapeCylinder, []int32{0}, []int32{0}, 0, true},
		{"unknown shape", "a", "Sphere", []int32{0, 1}, []int32{0, 1}, 0, true},
		{"default shape is poly", "a", "", []int32{0, 10, 0}, []int32{0, 0, 10}, 0, false},
		{"cuboid ok", "a", ShapeCuboid, []int32{0, 10}, []int32{0, 10}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegion(tt.rname, 0, tt.shape, tt.nodesX, tt.nodesY, tt.radius)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegion_ContainsCuboid(t *testing.T) {
	r, err := NewRegion("box", 0, ShapeCuboid, []int32{10, 0}, []int32{10, 0}, 0)
	require.NoError(t, err)

	assert.True(t, r.Contains(0, 0), "corner is inside")
	assert.True(t, r.Contains(5, 5))
	assert.True(t, r.Contains(10, 10), "opposite corner is inside")
	assert.False(t, r.Contains(11, 5))
	assert.False(t, r.Contains(5, -1))
}

func TestRegion_ContainsNPoly(t *testing.T) {
	// Треугольник (0,0) (100,0) (0,100)
	r, err := NewRegion("tri", 0, ShapeNPoly, []int32{0, 100, 0}, []int32{0, 0, 100}, 0)
	require.NoError(t, err)

	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(50, 50), "hypotenuse point is on the boundary")
	assert.False(t, r.Contains(80, 80), "inside bbox but outside triangle")
	assert.False(t, r.Contains(-1, 10))
}

func TestRegion_ContainsCylinder(t *testing.T) {
	r, err := NewRegion("circle", 0, ShapeCylinder, []int32{0}, []int32{0}, 10)
	require.NoError(t, err)

	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(6, 8), "exactly on the radius")
	assert.False(t, r.Contains(8, 8), "inside bbox corner but outside circle")
}

func TestRegion_Exclusive(t *testing.T) {
	plain, err := NewRegion("town", 0, ShapeCuboid, []int32{0, 1}, []int32{0, 1}, 0)
	require.NoError(t, err)
	marked, err := NewRegion(ExclusivePrefix+"ambient", 0, ShapeCuboid, []int32{0, 1}, []int32{0, 1}, 0)
	require.NoError(t, err)

	assert.False(t, plain.Exclusive())
	assert.True(t, marked.Exclusive())
}

func TestRegion_Distance(t *testing.T) {
	r, err := NewRegion("box", 0, ShapeCuboid, []int32{0, 10}, []int32{0, 10}, 0)
	require.NoError(t, err)

	assert.Zero(t, r.Distance(5, 5))
	assert.InDelta(t, 5.0, r.Distance(15, 5), 1e-9)
	assert.InDelta(t, 5.0, r.Distance(13, 14), 1e-9)
}
