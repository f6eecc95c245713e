package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type fallbackDoc struct {
	Products []model.Product `yaml:"products"`
}

// ParseFallback decodes a YAML product list.
func ParseFallback(data []byte) ([]model.Product, error) {
	var doc fallbackDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fallback catalog: %w", err)
	}
	out := make([]model.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		if p.ID == "" {
			continue
		}
		if p.Origin == "" {
			p.Origin = DefaultOrigin
		}
		if p.ImageURL == "" {
			p.ImageURL = ImageFor(p.Model)
		}
		if p.Variations == nil {
			p.Variations = []model.Variation{}
		}
		out = append(out, p)
	}
	return out, nil
}

// Fallback returns the bundled product list, or the list in path when set.
func Fallback(path string) ([]model.Product, error) {
	data := fallbackYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fallback catalog: %w", err)
		}
		data = b
	}
	return ParseFallback(data)
}
