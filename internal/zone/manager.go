package zone

import (
	"log/slog"
	"sort"
)

const gridSize int32 = 64 // тайлов на ячейку сетки

type gridKey struct {
	gx, gy int32
}

// Hit describes one region containing a queried point.
type Hit struct {
	Name      string
	Level     int32
	Exclusive bool
}

// Manager holds all regions with spatial indexing for fast lookups.
// Immutable after construction; safe for concurrent readers.
type Manager struct {
	regions []*Region
	byName  map[string]*Region
	grid    map[gridKey][]*Region
}

// NewManager indexes the given regions. A region whose name is already
// taken is skipped with a warning.
func NewManager(regions ...*Region) *Manager {
	m := &Manager{
		byName: make(map[string]*Region, len(regions)),
		grid:   make(map[gridKey][]*Region),
	}

	for _, r := range regions {
		if r == nil {
			continue
		}
		if _, dup := m.byName[r.name]; dup {
			slog.Warn("skip duplicate region", "name", r.name)
			continue
		}
		m.regions = append(m.regions, r)
		m.byName[r.name] = r
	}

	m.buildGrid()

	slog.Info("region manager initialized",
		"regions", len(m.regions),
		"grid_cells", len(m.grid),
	)

	return m
}

// AppendRegionsAt appends every region containing tile (x, y) to dst and
// returns the extended slice. Order is region load order.
// Pass a reused buffer (dst[:0]) to avoid allocation on hot paths.
func (m *Manager) AppendRegionsAt(x, y int32, dst []Hit) []Hit {
	key := gridKey{gx: floorDiv(x, gridSize), gy: floorDiv(y, gridSize)}

	for _, r := range m.grid[key] {
		if r.Contains(x, y) {
			dst = append(dst, Hit{Name: r.name, Level: r.level, Exclusive: r.Exclusive()})
		}
	}

	return dst
}

// Exists reports whether a region with the exact name exists.
func (m *Manager) Exists(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Get returns a region by name, or nil if not found.
func (m *Manager) Get(name string) *Region {
	return m.byName[name]
}

// Distance returns the tile distance from (x, y) to the named region.
func (m *Manager) Distance(name string, x, y int32) (float64, bool) {
	r, ok := m.byName[name]
	if !ok {
		return 0, false
	}
	return r.Distance(x, y), true
}

// Names returns all region names sorted alphabetically.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.regions))
	for _, r := range m.regions {
		names = append(names, r.name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed regions.
func (m *Manager) Len() int { return len(m.regions) }

// buildGrid регистрирует каждый регион во всех ячейках сетки,
// которые пересекает его bounding box.
func (m *Manager) buildGrid() {
	for _, r := range m.regions {
		gxMin := floorDiv(r.minX, gridSize)
		gxMax := floorDiv(r.maxX, gridSize)
		gyMin := floorDiv(r.minY, gridSize)
		gyMax := floorDiv(r.maxY, gridSize)

		for gx := gxMin; gx <= gxMax; gx++ {
			for gy := gyMin; gy <= gyMax; gy++ {
				key := gridKey{gx: gx, gy: gy}
				m.grid[key] = append(m.grid[key], r)
			}
		}
	}
}

// floorDiv выполняет целочисленное деление с округлением к -inf,
// корректно обрабатывая отрицательные координаты.
func floorDiv(a, b int32) int32 {
	d := a / b
	if (a^b) < 0 && d*b != a {
		d--
	}

	return d
}

