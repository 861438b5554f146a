package domain

import (
	"strconv"
	"strings"
)

// ExpiringSoonDays is the inclusive window, counted from today, that flags a lot for replacement.
const ExpiringSoonDays = 90

// ExpiryStatus classifies a lot relative to today. Every lot has exactly one status.
type ExpiryStatus string

const (
	StatusExpired      ExpiryStatus = "expired"
	StatusExpiringSoon ExpiryStatus = "expiring_soon"
	StatusNormal       ExpiryStatus = "normal"
)

// ClassifyExpiry places expiry into the expired, expiring-soon or normal bucket.
func ClassifyExpiry(expiry, today Date) ExpiryStatus {
	switch {
	case expiry.Before(today):
		return StatusExpired
	case !expiry.After(today.AddDays(ExpiringSoonDays)):
		return StatusExpiringSoon
	default:
		return StatusNormal
	}
}

// JoinedRow is an inventory lot joined with its catalog entry.
// Catalog columns are empty strings when the barcode has no catalog entry.
type JoinedRow struct {
	ID          int64   `db:"id" json:"id"`
	Barcode     string  `db:"barcode" json:"barcode"`
	ExpiryDate  Date    `db:"expiry_date" json:"expiry_date"`
	QuantityVal float64 `db:"quantity_val" json:"quantity_val"`
	Owner       string  `db:"owner" json:"owner"`
	MyDosage    string  `db:"my_dosage" json:"my_dosage"`
	CreatedAt   string  `db:"created_at" json:"created_at"`

	CatalogFound      bool   `db:"catalog_found" json:"catalog_found"`
	Name              string `db:"name" json:"name"`
	Manufacturer      string `db:"manufacturer" json:"manufacturer"`
	Spec              string `db:"spec" json:"spec"`
	Form              string `db:"form" json:"form"`
	Unit              string `db:"unit" json:"unit"`
	Indications       string `db:"indications" json:"indications"`
	StdUsage          string `db:"std_usage" json:"std_usage"`
	Contraindications string `db:"contraindications" json:"contraindications"`
	ChildUse          string `db:"child_use" json:"child_use"`
	Tags              string `db:"tags" json:"tags"`
	IsStandard        bool   `db:"is_standard" json:"is_standard"`

	QuantityDisplay string       `db:"-" json:"quantity_display"`
	Status          ExpiryStatus `db:"-" json:"status"`
	DaysLeft        int          `db:"-" json:"days_left"`
}

// SearchText returns the text columns a free-text search matches against.
func (r JoinedRow) SearchText() []string {
	return []string{
		r.Barcode, r.Name, r.Manufacturer, r.Spec, r.Form, r.Unit,
		r.Indications, r.StdUsage, r.Contraindications, r.ChildUse,
		r.Tags, r.Owner, r.MyDosage, r.ExpiryDate.String(), r.QuantityDisplay,
	}
}

// DashboardMetrics are the dashboard aggregates. Expired+ExpiringSoon+Normal == Total.
type DashboardMetrics struct {
	Total        int `json:"total"`
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiring_soon"`
	Normal       int `json:"normal"`
}

// FormatQuantity renders a quantity with its unit, e.g. "20 tablet" or "0.5 ml".
func FormatQuantity(qty float64, unit string) string {
	return strings.TrimSpace(strconv.FormatFloat(qty, 'f', -1, 64) + " " + unit)
}
