package catalog

import (
	"strings"

	"homemeds/m/domain"
)

// Search keeps the entries with any text column containing term, ignoring case.
// It never touches the store.
func Search(entries []domain.CatalogEntry, term string) []domain.CatalogEntry {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}
	out := make([]domain.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		for _, field := range []string{
			e.Barcode, e.Name, e.Manufacturer, e.Spec, e.Form, e.Unit,
			e.Indications, e.StdUsage, e.AdverseReactions, e.Contraindications,
			e.Precautions, e.PregnancyLactationUse, e.ChildUse, e.ElderlyUse, e.Tags,
		} {
			if strings.Contains(strings.ToLower(field), term) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
