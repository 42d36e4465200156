package report

import (
	"strings"

	"github.com/dripnest/storefront/internal/domain/catalog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategorySummary is the per-category line of the inventory analytics
type CategorySummary struct {
	Category   catalog.Category `json:"category"`
	Label      string           `json:"label"`
	Count      int64            `json:"count"`
	TotalStock int64            `json:"totalStock"`
}

var titleCaser = cases.Title(language.English)

// CategoryLabel renders a category slug for display, e.g. "pop-culture" as "Pop Culture"
func CategoryLabel(c catalog.Category) string {
	return titleCaser.String(strings.ReplaceAll(string(c), "-", " "))
}

// SummariseCategories converts repository stats into labelled summaries
func SummariseCategories(stats []catalog.CategoryStat) []CategorySummary {
	out := make([]CategorySummary, len(stats))
	for i, s := range stats {
		out[i] = CategorySummary{
			Category:   s.Category,
			Label:      CategoryLabel(s.Category),
			Count:      s.Count,
			TotalStock: s.TotalStock,
		}
	}
	return out
}
