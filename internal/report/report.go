// Package report renders a read-only markdown view of a case: every visible item with its
// answer, grouped by section, with completion percentages.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fidelity-cli/internal/model"
	"fidelity-cli/internal/progress"
	"fidelity-cli/internal/schema"
)

type Options struct {
	// Audience narrows the listed items. Progress figures are never filtered.
	Audience schema.Audience
	// IncludeHidden lists items whose condition currently hides them.
	IncludeHidden bool
}

// Markdown renders c against form. It never mutates the case.
func Markdown(form *schema.Form, c *model.Case, opt Options) (string, error) {
	if form == nil || c == nil {
		return "", fmt.Errorf("missing form or case")
	}
	tree := c.ValueTree
	det := progress.ComputeDetailed(form, tree)

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + form.Title)
	writeLn("")
	writeLn("## Case")
	writeLn("")
	if name := strings.TrimSpace(c.Meta.Name); name != "" {
		writeLn("- Name: " + name)
	}
	if ini := strings.TrimSpace(c.Meta.ClientInitials); ini != "" {
		writeLn("- Client: " + ini)
	}
	writeLn("- ID: " + c.ID)
	if !c.Meta.UpdatedAt.IsZero() {
		writeLn("- Updated: " + c.Meta.UpdatedAt.Format(schema.DateLayout))
	}
	writeLn(fmt.Sprintf("- Overall: %d%%", det.Overall))
	writeLn("")

	for _, sec := range form.Sections {
		sp, _ := det.Section(sec.ID)
		writeLn(fmt.Sprintf("## %s (%d%%)", sec.Title, sp.Percent))
		writeLn("")
		n := 0
		for _, it := range sec.Items {
			if !it.ShownFor(opt.Audience) {
				continue
			}
			visible := progress.IsVisible(it, tree)
			if !visible && !opt.IncludeHidden {
				continue
			}
			line := "- " + it.Label + ": " + Answer(it, tree)
			if !visible {
				line += " _(not applicable to this case)_"
			}
			writeLn(line)
			n++
		}
		if n == 0 {
			writeLn("_No items._")
		}
		writeLn("")
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

// Answer formats an item's current value for display.
func Answer(it schema.Item, tree model.ValueTree) string {
	if !it.NotApplicable.Empty() {
		if v, _ := tree.Lookup(it.NotApplicable); v == true {
			return "N/A"
		}
	}
	v, ok := tree.Lookup(it.Path)
	switch it.Type {
	case schema.ItemCheckbox:
		if v == true {
			return "yes"
		}
		return "no"
	case schema.ItemMultiCheckbox:
		var picked []string
		for _, s := range it.SubItems {
			if sv, _ := tree.Lookup(it.Path.Child(s.ID)); sv == true {
				picked = append(picked, s.Label)
			}
		}
		if len(picked) == 0 {
			return "none"
		}
		return strings.Join(picked, "; ")
	case schema.ItemRadio, schema.ItemSelect:
		s, _ := v.(string)
		if !ok || s == "" {
			return "(unanswered)"
		}
		if o, found := it.Option(s); found {
			return o.Label
		}
		return s
	case schema.ItemText:
		s, _ := v.(string)
		if strings.TrimSpace(s) == "" {
			return "(blank)"
		}
		return s
	case schema.ItemNumericRating:
		return ratingLabel(it, v)
	case schema.ItemDualRating:
		return "clinician " + ratingLabel(it, sideValue(tree, it, schema.SideClinician)) +
			", care coordinator " + ratingLabel(it, sideValue(tree, it, schema.SideCareCoordinator))
	}
	return fmt.Sprint(v)
}

func sideValue(tree model.ValueTree, it schema.Item, side string) any {
	v, _ := tree.Lookup(it.Path.Child(side))
	return v
}

func ratingLabel(it schema.Item, v any) string {
	f, ok := v.(float64)
	if !ok {
		return "(unrated)"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if o, found := it.Option(s); found && o.Label != s {
		return s + " (" + o.Label + ")"
	}
	return s
}

// SectionTable renders a compact per-section percentage table, sorted by form order or
// ascending completion.
func SectionTable(det progress.Detailed, byPercent bool) string {
	rows := append([]progress.SectionProgress{}, det.Sections...)
	if byPercent {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Percent < rows[j].Percent })
	}
	var buf bytes.Buffer
	buf.WriteString("| Section | Done | Filled |\n|---|---:|---:|\n")
	for _, r := range rows {
		fmt.Fprintf(&buf, "| %s | %d%% | %d/%d |\n", r.Title, r.Percent, r.Filled, r.Slots)
	}
	return buf.String()
}
