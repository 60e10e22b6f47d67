package search

import "strings"

// Sorter maps public sort field names onto SQL column expressions.
// Only values present in the allow-list ever reach the query text.
type Sorter struct {
	fields       map[string]string
	defaultField string
}

// NewSorter builds a Sorter. defaultField must be a key of fields.
func NewSorter(defaultField string, fields map[string]string) Sorter {
	if _, ok := fields[defaultField]; !ok {
		panic("search.NewSorter: default field " + defaultField + " not in allow-list")
	}
	return Sorter{fields: fields, defaultField: defaultField}
}

// OrderBy returns an ORDER BY body such as "countries.name DESC".
// Unknown fields fall back to the default field; unknown orders fall back
// to ASC.
func (s Sorter) OrderBy(field, order string) string {
	col, ok := s.fields[strings.TrimSpace(field)]
	if !ok {
		col = s.fields[s.defaultField]
	}
	return col + " " + Direction(order)
}

// Direction normalizes a sort order to "ASC" or "DESC".
func Direction(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), "desc") {
		return "DESC"
	}
	return "ASC"
}
