package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ekbaya/jkuat-navigation/internal/models"
)

// FileSource reads places from a JSON file. The file holds either a bare
// array of places or an object with a "places" array.
type FileSource struct {
	Path string
}

func (f FileSource) Places(_ context.Context) ([]models.Place, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	list, err := DecodePlaces(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return list, nil
}

// DecodePlaces parses the catalogue JSON format shared by files and object
// storage.
func DecodePlaces(data []byte) ([]models.Place, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []models.Place
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var doc struct {
		Places []models.Place `json:"places"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Places, nil
}

// EncodePlaces writes the object form of the catalogue.
func EncodePlaces(list []models.Place) ([]byte, error) {
	return json.MarshalIndent(struct {
		Places []models.Place `json:"places"`
	}{Places: list}, "", "  ")
}
