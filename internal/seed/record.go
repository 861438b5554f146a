package seed

import (
	"encoding/json"
	"fmt"

	"homemeds/m/domain"
)

// Record is one catalog entry in the snapshot. Official status and creation
// time are not carried: everything in a snapshot is official on import.
type Record struct {
	Barcode               string `json:"barcode"`
	Name                  string `json:"name"`
	Manufacturer          string `json:"manufacturer"`
	Spec                  string `json:"spec"`
	Form                  string `json:"form"`
	Unit                  string `json:"unit"`
	Indications           string `json:"indications"`
	StdUsage              string `json:"std_usage"`
	AdverseReactions      string `json:"adverse_reactions"`
	Contraindications     string `json:"contraindications"`
	Precautions           string `json:"precautions"`
	PregnancyLactationUse string `json:"pregnancy_lactation_use"`
	ChildUse              string `json:"child_use"`
	ElderlyUse            string `json:"elderly_use"`
	Tags                  string `json:"tags"`
}

func recordFrom(e domain.CatalogEntry) Record {
	return Record{
		Barcode:               e.Barcode,
		Name:                  e.Name,
		Manufacturer:          e.Manufacturer,
		Spec:                  e.Spec,
		Form:                  e.Form,
		Unit:                  e.Unit,
		Indications:           e.Indications,
		StdUsage:              e.StdUsage,
		AdverseReactions:      e.AdverseReactions,
		Contraindications:     e.Contraindications,
		Precautions:           e.Precautions,
		PregnancyLactationUse: e.PregnancyLactationUse,
		ChildUse:              e.ChildUse,
		ElderlyUse:            e.ElderlyUse,
		Tags:                  e.Tags,
	}
}

// Entry converts the record into an official catalog entry.
func (r Record) Entry() domain.CatalogEntry {
	return domain.CatalogEntry{
		Barcode:               r.Barcode,
		Name:                  r.Name,
		Manufacturer:          r.Manufacturer,
		Spec:                  r.Spec,
		Form:                  r.Form,
		Unit:                  r.Unit,
		Indications:           r.Indications,
		StdUsage:              r.StdUsage,
		AdverseReactions:      r.AdverseReactions,
		Contraindications:     r.Contraindications,
		Precautions:           r.Precautions,
		PregnancyLactationUse: r.PregnancyLactationUse,
		ChildUse:              r.ChildUse,
		ElderlyUse:            r.ElderlyUse,
		Tags:                  r.Tags,
		IsStandard:            true,
	}
}

// Encode renders official entries as a snapshot document.
func Encode(entries []domain.CatalogEntry) ([]byte, error) {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		if !e.IsStandard {
			return nil, fmt.Errorf("encode snapshot: entry %s is not official", e.Barcode)
		}
		records = append(records, recordFrom(e))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a snapshot document. Absent or null fields decode as empty strings.
func Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return records, nil
}
