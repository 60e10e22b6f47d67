package domain

// Country belongs to exactly one Continent.
// ContinentName is populated on reads only.
type Country struct {
	ID            int64
	Name          string
	Description   string
	Area          int64
	Population    int64
	ContinentID   int64
	ContinentName string
}

// CountryFilter narrows a country listing. Zero values mean "no filter".
type CountryFilter struct {
	ContinentID   int64
	ContinentName string
}
