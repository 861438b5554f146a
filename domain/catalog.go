package domain

import "strings"

// CatalogEntry is a shared drug-fact record keyed by product barcode.
type CatalogEntry struct {
	Barcode               string `db:"barcode" json:"barcode"`
	Name                  string `db:"name" json:"name"`
	Manufacturer          string `db:"manufacturer" json:"manufacturer"`
	Spec                  string `db:"spec" json:"spec"`
	Form                  string `db:"form" json:"form"`
	Unit                  string `db:"unit" json:"unit"`
	Indications           string `db:"indications" json:"indications"`
	StdUsage              string `db:"std_usage" json:"std_usage"`
	AdverseReactions      string `db:"adverse_reactions" json:"adverse_reactions"`
	Contraindications     string `db:"contraindications" json:"contraindications"`
	Precautions           string `db:"precautions" json:"precautions"`
	PregnancyLactationUse string `db:"pregnancy_lactation_use" json:"pregnancy_lactation_use"`
	ChildUse              string `db:"child_use" json:"child_use"`
	ElderlyUse            string `db:"elderly_use" json:"elderly_use"`
	Tags                  string `db:"tags" json:"tags"`
	IsStandard            bool   `db:"is_standard" json:"is_standard"`
	CreatedAt             string `db:"created_at" json:"created_at"`
}

// TagList splits the space-delimited tags column.
func (c CatalogEntry) TagList() []string {
	return strings.Fields(c.Tags)
}
