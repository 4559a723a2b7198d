package trigger

import (
	"github.com/udisondev/smartregions/internal/model"
	"github.com/udisondev/smartregions/internal/zone"
)

// Geometry is the read-only region store the engine resolves against.
// *zone.Manager implements it.
type Geometry interface {
	// AppendRegionsAt appends every region containing tile (x, y) to dst.
	AppendRegionsAt(x, y int32, dst []zone.Hit) []zone.Hit
	Exists(name string) bool
	// Distance returns the tile distance from (x, y) to the region, 0 inside.
	Distance(name string, x, y int32) (float64, bool)
}

// Resolver computes which bound regions fire at a point.
// Not safe for concurrent use: it owns scratch buffers reused across calls.
type Resolver struct {
	geo  Geometry
	hits []zone.Hit
	out  []model.Definition
}

// NewResolver creates a resolver over geo.
func NewResolver(geo Geometry) *Resolver {
	return &Resolver{
		geo:  geo,
		hits: make([]zone.Hit, 0, 16),
		out:  make([]model.Definition, 0, 16),
	}
}

// Resolve returns the definitions that are eligible to fire at tile (x, y),
// in the order the geometry reports their regions.
//
// Unmarked regions always pass. A region with the exclusive marker passes
// only when its level is the highest among all regions at the point, bound
// or not. When several marked regions share that level, only the one with
// the lexicographically smallest name passes.
//
// The returned slice is reused by the next call.
func (r *Resolver) Resolve(x, y int32, defs map[string]model.Definition) []model.Definition {
	r.out = r.out[:0]
	if len(defs) == 0 {
		return r.out
	}

	r.hits = r.geo.AppendRegionsAt(x, y, r.hits[:0])
	if len(r.hits) == 0 {
		return r.out
	}

	top := r.hits[0].Level
	for _, h := range r.hits[1:] {
		top = max(top, h.Level)
	}

	// единственный победитель среди помеченных регионов верхнего уровня
	winner, haveWinner := "", false
	for _, h := range r.hits {
		if !h.Exclusive || h.Level != top {
			continue
		}
		if _, bound := defs[h.Name]; !bound {
			continue
		}
		if !haveWinner || h.Name < winner {
			winner, haveWinner = h.Name, true
		}
	}

	for _, h := range r.hits {
		def, bound := defs[h.Name]
		if !bound {
			continue
		}
		if h.Exclusive && (h.Level != top || h.Name != winner) {
			continue
		}
		r.out = append(r.out, def)
	}

	return r.out
}
