package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/thali-menu/api/internal/dish"
)

//go:embed data/sample.json
var sampleCatalog []byte

// JSONProvider reads a JSON array of raw dish records, either from a file
// (re-read on every load) or from bytes bundled into the binary.
type JSONProvider struct {
	path string
	data []byte
}

// NewJSONFileProvider reads the catalog from path on every load.
func NewJSONFileProvider(path string) *JSONProvider {
	return &JSONProvider{path: path}
}

// NewSampleProvider serves the catalog bundled with the binary.
func NewSampleProvider() *JSONProvider {
	return &JSONProvider{data: sampleCatalog}
}

func (p *JSONProvider) Dishes(ctx context.Context) ([]dish.Dish, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, data := "embedded", p.data
	if p.path != "" {
		b, err := os.ReadFile(p.path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p.path, err)
		}
		source, data = p.path, b
	}

	dishes, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", source, err)
	}
	warnDuplicates(source, dishes)
	return dishes, nil
}

// Decode parses a JSON array of raw dish records and normalizes them.
func Decode(r io.Reader) ([]dish.Dish, error) {
	var raw []dish.RawDish
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	return dish.NormalizeAll(raw), nil
}
