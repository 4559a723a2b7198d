package model

// Location представляет координаты тайла в игровом мире.
// Value type, передаётся по значению (immutable).
type Location struct {
	X int32
	Y int32
}

// NewLocation создаёт Location с указанными координатами тайла.
func NewLocation(x, y int32) Location {
	return Location{X: x, Y: y}
}
