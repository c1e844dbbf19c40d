package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fidelity-cli/internal/schema"
)

func (m focusModel) Init() tea.Cmd { return nil }

func (m focusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = clampInt(msg.Width/3, 10, 40)
		m.input.Width = clampInt(msg.Width-6, 10, 200)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m focusModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.editing = false
		m.input.Blur()
		m.setFlash("Edit cancelled.", false)
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		if e, ok := m.ctrl.Current(); ok {
			if err := m.sess.SetInput(e.Item.Path, m.input.Value()); err != nil {
				m.setFlash(err.Error(), true)
				return m, nil
			}
			m.afterEdit()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m focusModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	m.flashErr = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Save):
		m.forceSave()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.ctrl.Next()
		m.syncCursor()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.Prev()
		m.syncCursor()
		return m, nil
	case key.Matches(msg, m.keys.NextSection):
		m.jumpNextIncomplete()
		return m, nil
	}

	e, ok := m.ctrl.Current()
	if !ok {
		return m, nil
	}
	it := e.Item
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(it, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(it, 1)
	case key.Matches(msg, m.keys.Left):
		m.cycle(it, -1)
	case key.Matches(msg, m.keys.Right):
		m.cycle(it, 1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggle(it)
	case key.Matches(msg, m.keys.Edit):
		if it.Type == schema.ItemText {
			return m.startEditing(it)
		}
		m.toggle(it)
	case key.Matches(msg, m.keys.Clear):
		m.clear(it)
	case key.Matches(msg, m.keys.NA):
		m.toggleNA(it)
	case key.Matches(msg, m.keys.Rate):
		m.rate(it, msg.String())
	}
	return m, nil
}

func (m focusModel) startEditing(it schema.Item) (tea.Model, tea.Cmd) {
	v, _ := m.sess.Get(it.Path)
	s, _ := v.(string)
	m.input.SetValue(s)
	m.input.CursorEnd()
	m.editing = true
	cmd := m.input.Focus()
	return m, cmd
}

func (m focusModel) quit() (tea.Model, tea.Cmd) {
	m.saveFocus()
	if m.saver != nil {
		if err := m.saver.Close(); err != nil {
			m.log.Error("final save failed", zap.Error(err))
		}
	} else if err := m.store.Save(m.db); err != nil {
		m.log.Error("final save failed", zap.Error(err))
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *focusModel) forceSave() {
	var err error
	if m.saver != nil {
		err = m.saver.SaveNow(m.db)
	} else {
		err = m.store.Save(m.db)
	}
	if err != nil {
		m.log.Error("force save failed", zap.Error(err))
		m.setFlash("Save failed: "+err.Error(), true)
		return
	}
	m.log.Info("force save", zap.String("caseId", m.sess.Case().ID))
	m.setFlash("Saved.", false)
}

// jumpNextIncomplete goes to the first incomplete section in form order. A section whose
// items are all hidden cannot take focus, so later incomplete sections are tried next.
func (m *focusModel) jumpNextIncomplete() {
	first, ok := m.sess.NextIncompleteSection()
	if !ok {
		m.setFlash("All sections complete.", false)
		return
	}
	if m.ctrl.JumpToSection(first) {
		m.syncCursor()
		return
	}
	snap := m.sess.Progress()
	started := false
	for _, sec := range m.sess.Form().Sections {
		if sec.ID == first {
			started = true
			continue
		}
		if !started || snap.PerSection[sec.ID] >= 100 {
			continue
		}
		if m.ctrl.JumpToSection(sec.ID) {
			m.syncCursor()
			return
		}
	}
	m.setFlash("Remaining sections have no items to answer yet.", false)
}

func (m *focusModel) moveCursor(it schema.Item, delta int) {
	n := cursorLen(it)
	if n == 0 {
		return
	}
	m.cursor = clampInt(m.cursor+delta, 0, n-1)
}

func (m *focusModel) toggle(it schema.Item) {
	switch it.Type {
	case schema.ItemCheckbox:
		m.sess.Set(it.Path, !m.boolAt(it.Path))
	case schema.ItemMultiCheckbox:
		if m.cursor < 0 || m.cursor >= len(it.SubItems) {
			return
		}
		p := it.Path.Child(it.SubItems[m.cursor].ID)
		m.sess.Set(p, !m.boolAt(p))
	case schema.ItemRadio, schema.ItemSelect, schema.ItemNumericRating:
		if m.cursor < 0 || m.cursor >= len(it.Options) {
			return
		}
		m.setInput(it.Path, it.Options[m.cursor].Value)
		return
	default:
		return
	}
	m.afterEdit()
}

// cycle steps the answer to the neighbouring option.
func (m *focusModel) cycle(it schema.Item, dir int) {
	path := it.Path
	switch it.Type {
	case schema.ItemRadio, schema.ItemSelect, schema.ItemNumericRating:
	case schema.ItemDualRating:
		path = m.sidePath(it)
	default:
		return
	}
	if len(it.Options) == 0 {
		return
	}
	i := m.optionIndex(it, path)
	switch {
	case i < 0 && dir > 0:
		i = 0
	case i < 0:
		i = len(it.Options) - 1
	default:
		i = clampInt(i+dir, 0, len(it.Options)-1)
	}
	if it.Type != schema.ItemDualRating {
		m.cursor = i
	}
	m.setInput(path, it.Options[i].Value)
}

func (m *focusModel) rate(it schema.Item, digit string) {
	switch it.Type {
	case schema.ItemNumericRating:
		if m.setInput(it.Path, digit) {
			m.cursor = max(m.optionIndex(it, it.Path), 0)
		}
	case schema.ItemDualRating:
		m.setInput(m.sidePath(it), digit)
	case schema.ItemRadio, schema.ItemSelect:
		n, err := strconv.Atoi(digit)
		if err != nil || n < 1 || n > len(it.Options) {
			return
		}
		m.cursor = n - 1
		m.setInput(it.Path, it.Options[n-1].Value)
	}
}

func (m *focusModel) clear(it schema.Item) {
	switch it.Type {
	case schema.ItemCheckbox:
		m.sess.Set(it.Path, false)
	case schema.ItemMultiCheckbox:
		if m.cursor < 0 || m.cursor >= len(it.SubItems) {
			return
		}
		m.sess.Set(it.Path.Child(it.SubItems[m.cursor].ID), false)
	case schema.ItemRadio, schema.ItemSelect, schema.ItemText:
		m.sess.Set(it.Path, "")
	case schema.ItemNumericRating:
		m.sess.Set(it.Path, nil)
	case schema.ItemDualRating:
		m.sess.Set(m.sidePath(it), nil)
	default:
		return
	}
	m.afterEdit()
}

func (m *focusModel) toggleNA(it schema.Item) {
	if it.NotApplicable.Empty() {
		m.setFlash("This item has no N/A option.", false)
		return
	}
	m.sess.Set(it.NotApplicable, !m.boolAt(it.NotApplicable))
	m.afterEdit()
}

// setInput coerces raw through the schema and reports whether the value was stored.
func (m *focusModel) setInput(path schema.FieldPath, raw string) bool {
	if err := m.sess.SetInput(path, raw); err != nil {
		m.setFlash(err.Error(), true)
		return false
	}
	m.afterEdit()
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
