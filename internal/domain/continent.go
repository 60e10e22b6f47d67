package domain

// Continent is the root of the geography hierarchy.
// It cannot be deleted while any Country references it.
type Continent struct {
	ID          int64
	Name        string
	Description string
	Area        int64
}
