// Package advisor renders the currently valid stock as a compact text context
// and forwards household questions, with that context, to a chat-completion service.
package advisor

import (
	"context"
	"strings"

	"homemeds/m/domain"
)

// FieldCap bounds each free-text field copied into the context, in runes.
const FieldCap = 40

// Returned instead of an empty context.
const (
	ContextEmpty      = "The household medicine inventory is empty."
	ContextAllExpired = "The household has no valid medicine: every lot in the inventory has expired."
)

// View is the joined inventory view the builder reads.
type View interface {
	LoadJoinedView(ctx context.Context) ([]domain.JoinedRow, error)
}

// Builder turns the joined view into advisory context.
type Builder struct {
	view View
}

func NewBuilder(view View) *Builder {
	return &Builder{view: view}
}

// BuildContext renders one line per lot that has not expired. It never returns
// an empty string.
func (b *Builder) BuildContext(ctx context.Context) (string, error) {
	rows, err := b.view.LoadJoinedView(ctx)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return ContextEmpty, nil
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Status == domain.StatusExpired {
			continue
		}
		lines = append(lines, Line(r))
	}
	if len(lines) == 0 {
		return ContextAllExpired, nil
	}
	return strings.Join(lines, "\n"), nil
}

// Line renders a single lot.
func Line(r domain.JoinedRow) string {
	name := r.Name
	if name == "" {
		name = "barcode " + r.Barcode
	}
	tag := "[user]"
	if r.IsStandard {
		tag = "[official]"
	}
	owner := r.Owner
	if owner == "" {
		owner = domain.OwnerShared
	}

	var b strings.Builder
	b.WriteString("- " + name + " " + tag)
	if r.Manufacturer != "" {
		b.WriteString(" | manufacturer: " + truncate(r.Manufacturer, FieldCap))
	}
	b.WriteString(" | remaining: " + r.QuantityDisplay)
	b.WriteString(" | owner: " + owner)
	b.WriteString(" | expires: " + r.ExpiryDate.String())
	if r.Contraindications != "" {
		b.WriteString(" | contraindications: " + truncate(r.Contraindications, FieldCap))
	}
	if r.ChildUse != "" {
		b.WriteString(" | child use: " + truncate(r.ChildUse, FieldCap))
	}
	if r.MyDosage != "" {
		b.WriteString(" | note: " + truncate(r.MyDosage, FieldCap))
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
