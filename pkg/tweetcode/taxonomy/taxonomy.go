// Package taxonomy reads the reference list of label categories.
//
// The document maps a category name to a block of "Main > Sub" lines. It is
// JSON in practice; any YAML mapping with string values is accepted too.
// Category order follows the document.
package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
)

// DefaultPath is the taxonomy document read when none is configured.
const DefaultPath = "tags.json"

// Load reads and parses the taxonomy document at path.
func Load(path string) ([]models.TaxonomyCategory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}
	categories, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return categories, nil
}

// Parse decodes a taxonomy document and groups each category's lines.
func Parse(data []byte) ([]models.TaxonomyCategory, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal taxonomy: %w", err)
	}

	categories := make([]models.TaxonomyCategory, 0, len(doc))
	for _, item := range doc {
		name := fmt.Sprint(item.Key)
		text, ok := item.Value.(string)
		if !ok {
			return nil, fmt.Errorf("category %q: expected text, got %T", name, item.Value)
		}
		categories = append(categories, models.TaxonomyCategory{
			Name:   name,
			Groups: Group(text),
		})
	}
	return categories, nil
}

// Group splits text into lines and groups "Main > Sub" lines by Main, keeping
// first-seen order. Only the first ">" splits, so Sub may itself contain ">".
// Lines without ">" are ignored.
func Group(text string) []models.TaxonomyGroup {
	var groups []models.TaxonomyGroup
	index := make(map[string]int)

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		main, sub, ok := strings.Cut(line, ">")
		if !ok {
			continue
		}
		main, sub = strings.TrimSpace(main), strings.TrimSpace(sub)

		i, seen := index[main]
		if !seen {
			i = len(groups)
			index[main] = i
			groups = append(groups, models.TaxonomyGroup{Main: main})
		}
		groups[i].Subs = append(groups[i].Subs, sub)
	}
	return groups
}
