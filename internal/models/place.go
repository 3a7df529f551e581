package models

// Place is a navigable destination. Places are supplied by the host as an
// ordered collection and are never modified here.
type Place struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// HasID reports whether the record carries a usable identifier.
func (p Place) HasID() bool {
	return p.ID > 0
}
