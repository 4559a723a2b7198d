// Package zone is the region geometry store: named tile regions with a
// hierarchy level, polygon/cuboid/cylinder containment and a spatial grid
// for point lookups.
package zone

import (
	"fmt"
	"math"
	"strings"
)

// ExclusivePrefix marks a region that only fires its trigger when no
// higher-level region contains the same point.
const ExclusivePrefix = "~"

// Shape names accepted in region files.
const (
	ShapeNPoly    = "NPoly"
	ShapeCuboid   = "Cuboid"
	ShapeCylinder = "Cylinder"
)

// Region is a named area of tiles.
// Level orders overlapping regions: higher is considered on top.
type Region struct {
	name   string
	level  int32
	shape  string
	nodesX []int32
	nodesY []int32
	rad    int32 // radius for Cylinder shape

	// bounding box, computed once
	minX, maxX, minY, maxY int32
}

// NewRegion validates the geometry and builds a Region.
func NewRegion(name string, level int32, shape string, nodesX, nodesY []int32, radius int32) (*Region, error) {
	if name == "" {
		return nil, fmt.Errorf("region name cannot be empty")
	}
	if len(nodesX) != len(nodesY) {
		return nil, fmt.Errorf("region %q: %d x nodes but %d y nodes", name, len(nodesX), len(nodesY))
	}
	if shape == "" {
		shape = ShapeNPoly
	}

	switch shape {
	case ShapeNPoly:
		if len(nodesX) < 3 {
			return nil, fmt.Errorf("region %q: NPoly needs at least 3 nodes, got %d", name, len(nodesX))
		}
	case ShapeCuboid:
		if len(nodesX) < 2 {
			return nil, fmt.Errorf("region %q: Cuboid needs 2 nodes, got %d", name, len(nodesX))
		}
	case ShapeCylinder:
		if len(nodesX) < 1 || radius <= 0 {
			return nil, fmt.Errorf("region %q: Cylinder needs a center node and positive radius", name)
		}
	default:
		return nil, fmt.Errorf("region %q: unknown shape %q", name, shape)
	}

	r := &Region{
		name:   name,
		level:  level,
		shape:  shape,
		nodesX: nodesX,
		nodesY: nodesY,
		rad:    radius,
	}
	r.computeBounds()
	return r, nil
}

// Name returns the region name including any marker prefix.
func (r *Region) Name() string { return r.name }

// Level returns the hierarchy level (Z).
func (r *Region) Level() int32 { return r.level }

// Shape returns the shape name.
func (r *Region) Shape() string { return r.shape }

// Exclusive reports whether the region name carries ExclusivePrefix.
func (r *Region) Exclusive() bool { return strings.HasPrefix(r.name, ExclusivePrefix) }

// Contains checks if tile (x, y) is inside the region geometry.
// For "NPoly" shape: uses ray casting (point-in-polygon) algorithm.
// For "Cuboid" shape: uses axis-aligned bounding box check.
// For "Cylinder" shape: uses center + radius circle check.
func (r *Region) Contains(x, y int32) bool {
	if x < r.minX || x > r.maxX || y < r.minY || y > r.maxY {
		return false
	}

	switch r.shape {
	case ShapeCuboid:
		return true
	case ShapeCylinder:
		return r.containsCylinder(x, y)
	default:
		return r.containsNPoly(x, y)
	}
}

// Distance returns the Euclidean tile distance from (x, y) to the region's
// bounding box; 0 when the point is inside the box.
func (r *Region) Distance(x, y int32) float64 {
	dx := axisGap(x, r.minX, r.maxX)
	dy := axisGap(y, r.minY, r.maxY)
	return math.Hypot(float64(dx), float64(dy))
}

func axisGap(v, lo, hi int32) int64 {
	switch {
	case v < lo:
		return int64(lo) - int64(v)
	case v > hi:
		return int64(v) - int64(hi)
	default:
		return 0
	}
}

func (r *Region) computeBounds() {
	if r.shape == ShapeCylinder {
		cx, cy := r.nodesX[0], r.nodesY[0]
		r.minX, r.maxX = cx-r.rad, cx+r.rad
		r.minY, r.maxY = cy-r.rad, cy+r.rad
		return
	}

	r.minX, r.maxX = r.nodesX[0], r.nodesX[0]
	r.minY, r.maxY = r.nodesY[0], r.nodesY[0]
	for i := 1; i < len(r.nodesX); i++ {
		r.minX = min(r.minX, r.nodesX[i])
		r.maxX = max(r.maxX, r.nodesX[i])
		r.minY = min(r.minY, r.nodesY[i])
		r.maxY = max(r.maxY, r.nodesY[i])
	}
}

// containsCylinder проверяет попадание точки в круг (center + radius).
func (r *Region) containsCylinder(x, y int32) bool {
	dx := int64(x - r.nodesX[0])
	dy := int64(y - r.nodesY[0])
	rad := int64(r.rad)
	return dx*dx+dy*dy <= rad*rad
}

// containsNPoly проверяет попадание точки в полигон алгоритмом ray casting.
func (r *Region) containsNPoly(x, y int32) bool {
	n := len(r.nodesX)
	count := 0
	j := n - 1

	for i := range n {
		if (r.nodesY[i] > y) != (r.nodesY[j] > y) {
			slope := int64(x-r.nodesX[i])*int64(r.nodesY[j]-r.nodesY[i]) -
				int64(r.nodesX[j]-r.nodesX[i])*int64(y-r.nodesY[i])

			if slope == 0 {
				// Точка лежит на границе полигона.
				return true
			}

			if (slope < 0) != (int64(r.nodesY[j]-r.nodesY[i]) < 0) {
				count++
			}
		}
		j = i
	}

	return count%2 == 1
}
