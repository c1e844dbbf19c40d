package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"fidelity-cli/internal/schema"
)

func (m focusModel) View() string {
	if m.quitting {
		return ""
	}
	w := m.width
	if w <= 0 {
		w = 80
	}
	form := m.sess.Form()
	c := m.sess.Case()
	det := m.sess.Detailed()

	var lines []string
	add := func(s string) { lines = append(lines, truncate(s, w)) }

	header := styleTitle().Render(form.Title)
	if name := strings.TrimSpace(c.Meta.Name); name != "" {
		header += "  " + name
	}
	if ini := strings.TrimSpace(c.Meta.ClientInitials); ini != "" {
		header += styleMuted().Render(" (" + ini + ")")
	}
	add(header)

	pos := "no items"
	if m.ctrl.Len() > 0 {
		pos = fmt.Sprintf("item %d/%d", m.ctrl.Index()+1, m.ctrl.Len())
	}
	add(m.bar.ViewAs(float64(det.Overall)/100) + percentStyle(det.Overall).Render(fmt.Sprintf(" %3d%%", det.Overall)) + styleMuted().Render("  "+pos))

	badges := make([]string, 0, len(det.Sections))
	for _, s := range det.Sections {
		badges = append(badges, percentStyle(s.Percent).Render(fmt.Sprintf("%s %d%%", s.Title, s.Percent)))
	}
	add(strings.Join(badges, styleMuted().Render(" · ")))
	add("")

	e, ok := m.ctrl.Current()
	if !ok {
		add(styleMuted().Render("No visible items. Answer the case details to unlock more."))
	} else {
		sp, _ := det.Section(e.SectionID)
		add(lipgloss.NewStyle().Bold(true).Render(sp.Title) + percentStyle(sp.Percent).Render(fmt.Sprintf("  %d%%", sp.Percent)))
		add("")
		add(lipgloss.NewStyle().Bold(true).Render(e.Item.Label))
		for _, l := range m.widgetLines(e.Item) {
			add(l)
		}
	}

	add("")
	if m.flash != "" {
		if m.flashErr {
			add(styleError().Render(m.flash))
		} else {
			add(styleMuted().Render(m.flash))
		}
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m focusModel) widgetLines(it schema.Item) []string {
	var out []string
	mark := func(i int, s string) string {
		if i == m.cursor {
			return styleSelected().Render("› " + s)
		}
		return "  " + s
	}
	box := func(b bool) string {
		if b {
			return "[x]"
		}
		return "[ ]"
	}

	if !it.NotApplicable.Empty() && m.boolAt(it.NotApplicable) {
		out = append(out, styleMuted().Render("N/A (press a to undo)"))
		return out
	}

	switch it.Type {
	case schema.ItemCheckbox:
		out = append(out, box(m.boolAt(it.Path))+" done")
		if !it.NotApplicable.Empty() {
			out = append(out, styleMuted().Render("a: mark not applicable"))
		}
	case schema.ItemMultiCheckbox:
		for i, s := range it.SubItems {
			out = append(out, mark(i, box(m.boolAt(it.Path.Child(s.ID)))+" "+s.Label))
		}
	case schema.ItemRadio, schema.ItemSelect, schema.ItemNumericRating:
		sel := m.optionIndex(it, it.Path)
		for i, o := range it.Options {
			dot := "( )"
			if i == sel {
				dot = "(•)"
			}
			label := o.Label
			if it.Type == schema.ItemNumericRating {
				label = o.Value + " " + o.Label
			}
			out = append(out, mark(i, dot+" "+label))
		}
	case schema.ItemText:
		if m.editing {
			out = append(out, m.input.View())
			out = append(out, styleMuted().Render("enter: save  esc: cancel"))
			break
		}
		v, _ := m.sess.Get(it.Path)
		s, _ := v.(string)
		if strings.TrimSpace(s) == "" {
			out = append(out, styleMuted().Render("(blank, enter to edit)"))
		} else {
			out = append(out, s)
		}
	case schema.ItemDualRating:
		for i, side := range schema.DualSides {
			out = append(out, mark(i, sideLabel(side)+": "+m.ratingText(it, it.Path.Child(side))))
		}
	}
	return out
}

func (m focusModel) ratingText(it schema.Item, path schema.FieldPath) string {
	i := m.optionIndex(it, path)
	if i < 0 {
		return "(unrated)"
	}
	o := it.Options[i]
	return o.Value + " " + o.Label
}

func sideLabel(side string) string {
	switch side {
	case schema.SideClinician:
		return "Clinician"
	case schema.SideCareCoordinator:
		return "Care coordinator"
	}
	return side
}

func truncate(s string, w int) string {
	if w <= 0 || xansi.StringWidth(s) <= w {
		return s
	}
	return xansi.Truncate(s, w, "…")
}
