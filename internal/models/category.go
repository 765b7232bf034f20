package models

import "strings"

// Category is the closed set of fail categories a post or duel belongs to.
type Category string

const (
	CategoryCooking   Category = "Cooking"
	CategoryGardening Category = "Gardening"
	CategoryDIY       Category = "DIY"
	CategoryAuto      Category = "Auto"
	CategoryArt       Category = "Art"
	CategorySewing    Category = "Sewing"
	CategoryBugs      Category = "Bugs"
	CategoryOther     Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryCooking,
	CategoryGardening,
	CategoryDIY,
	CategoryAuto,
	CategoryArt,
	CategorySewing,
	CategoryBugs,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	for _, known := range Categories {
		if strings.EqualFold(string(known), raw) {
			return known, true
		}
	}
	return "", false
}

// NormalizeInterests drops unknown categories and duplicates, keeping first-seen order.
func NormalizeInterests(in []Category) []Category {
	seen := make(map[Category]struct{}, len(in))
	out := make([]Category, 0, len(in))
	for _, c := range in {
		if !c.Valid() {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
