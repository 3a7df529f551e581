package keys

import (
	"fmt"
	"strings"
)

// sanitizeKey replaces spaces with hyphens and lowercases the string.
func sanitizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

// Catalog returns the canonical object key of a named place catalogue.
func Catalog(name string) string {
	return fmt.Sprintf("catalogs/%s/places.json", sanitizeKey(name))
}

// CatalogName recovers the catalogue name from an object key produced by
// Catalog. ok is false for keys of other objects.
func CatalogName(key string) (name string, ok bool) {
	rest, found := strings.CutPrefix(key, "catalogs/")
	if !found {
		return "", false
	}
	name, found = strings.CutSuffix(rest, "/places.json")
	if !found || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
