package db

import "strings"

// Category 文章分类
type Category string

const (
	CategoryTerrestres Category = "TERRESTRES"
	CategoryMarins     Category = "MARINS"
	CategoryAeriens    Category = "AERIENS"
	CategoryEauDouce   Category = "EAU_DOUCE"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTerrestres,
	CategoryMarins,
	CategoryAeriens,
	CategoryEauDouce,
}

// ParseCategory case-folds raw and matches it against the known categories.
// "eau-douce" and "eau douce" are accepted as spellings of EAU_DOUCE.
func ParseCategory(raw string) (Category, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	for _, category := range Categories {
		if string(category) == normalized {
			return category, true
		}
	}
	return "", false
}
