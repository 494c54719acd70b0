package repositories

import (
	"sort"

	"maninews/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortCategoriesByName orders categories by name with the locale's
// collation so that accented names sort next to their base letters.
// Collators are not safe for concurrent use, so one is built per call.
func sortCategoriesByName(categories []models.Category, locale language.Tag) {
	c := collate.New(locale, collate.IgnoreCase)
	sort.SliceStable(categories, func(i, j int) bool {
		return c.CompareString(categories[i].Name, categories[j].Name) < 0
	})
}
