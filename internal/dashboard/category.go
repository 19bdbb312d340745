package dashboard

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Category is a fixed label used to group tasks.
type Category string

// Categories in display order.
const (
	CategoryPreparation Category = "Hazırlık"
	CategoryResearch    Category = "Araştırma"
	CategoryApplication Category = "Başvuru"
	CategoryInterview   Category = "Görüşme"
	CategoryGrowth      Category = "Gelişim"
)

var categories = [...]Category{
	CategoryPreparation,
	CategoryResearch,
	CategoryApplication,
	CategoryInterview,
	CategoryGrowth,
}

var categoryAliases = map[Category]string{
	CategoryPreparation: "preparation",
	CategoryResearch:    "research",
	CategoryApplication: "application",
	CategoryInterview:   "interview",
	CategoryGrowth:      "growth",
}

// Categories returns the category enumeration in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	return c.index() >= 0
}

// Alias returns the ASCII name of c, e.g. "preparation".
func (c Category) Alias() string {
	return categoryAliases[c]
}

// Letter returns the fixed reference letter of c ('a' for the first
// category), or 0 for an invalid category.
func (c Category) Letter() rune {
	i := c.index()
	if i < 0 {
		return 0
	}
	return rune('a' + i)
}

func (c Category) index() int {
	for i, cat := range categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// CategoryByLetter returns the category with the given reference letter.
func CategoryByLetter(letter rune) (Category, bool) {
	i := int(letter - 'a')
	if i < 0 || i >= len(categories) {
		return "", false
	}
	return categories[i], true
}

// ParseCategory resolves a label or alias, case-insensitively and trimmed.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) || strings.EqualFold(c.Alias(), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// AssignCategory picks a category for a remote record that carries none.
// The choice depends only on the remote ID, so a reload never moves a task.
func AssignCategory(remoteID string) Category {
	h := fnv.New32a()
	h.Write([]byte(remoteID))
	return categories[h.Sum32()%uint32(len(categories))]
}
