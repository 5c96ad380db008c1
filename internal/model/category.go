// Package model holds the domain types shared across the service.
package model

import "strings"

// Category is a link or article topic drawn from a closed set.
type Category string

// The canonical category set. Anything outside it is folded into
// CategoryGeneral at the boundary, so persisted rows only ever carry
// these values.
const (
	CategoryGeneral    Category = "general"
	CategoryTechnology Category = "technology"
	CategoryScience    Category = "science"
	CategoryBusiness   Category = "business"
	CategoryCulture    Category = "culture"
	CategoryDesign     Category = "design"
)

// DefaultCategories seed the affinity of a user with no links yet.
var DefaultCategories = [2]Category{CategoryTechnology, CategoryScience}

// FallbackCategory is used when a user's preferred category yields no
// candidate articles.
const FallbackCategory = CategoryTechnology

var categories = map[Category]bool{
	CategoryGeneral:    true,
	CategoryTechnology: true,
	CategoryScience:    true,
	CategoryBusiness:   true,
	CategoryCulture:    true,
	CategoryDesign:     true,
}

// NormalizeCategory canonicalizes arbitrary input to the closed set.
// Unknown or empty input maps to CategoryGeneral.
func NormalizeCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if categories[c] {
		return c
	}
	return CategoryGeneral
}

// IsValid reports whether c is one of the canonical categories.
func (c Category) IsValid() bool {
	return categories[c]
}

func (c Category) String() string {
	return string(c)
}
