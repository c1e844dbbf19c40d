package tui

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"fidelity-cli/internal/logging"
	"fidelity-cli/internal/model"
	"fidelity-cli/internal/nav"
	"fidelity-cli/internal/schema"
	"fidelity-cli/internal/session"
	"fidelity-cli/internal/store"
)

type Options struct {
	Store store.Store
	DB    *store.DB
	// Saver receives every edit. Without one, edits are only written by ctrl+s and on quit.
	Saver    *store.DebouncedSaver
	Audience schema.Audience
	Logger   *zap.Logger
}

// focusModel walks the current case one visible item at a time.
type focusModel struct {
	store store.Store
	db    *store.DB
	saver *store.DebouncedSaver
	sess  *session.FormSession
	ctrl  *nav.Controller
	aud   schema.Audience
	log   *zap.Logger

	keys  keyMap
	help  help.Model
	bar   bprogress.Model
	input textinput.Model

	editing bool
	// cursor indexes sub-items, options or dual sides of the focused item.
	cursor  int
	lastKey string

	width  int
	height int

	flash    string
	flashErr bool
	quitting bool
}

func newFocusModel(opts Options) (focusModel, error) {
	if opts.DB == nil {
		return focusModel{}, errors.New("missing db")
	}
	c, ok := opts.DB.Current()
	if !ok {
		return focusModel{}, errors.New("no current case (create one with `fidelity cases new`)")
	}
	db, saver := opts.DB, opts.Saver
	sess, err := session.New(c, session.WithOnChange(func(*model.Case) {
		saver.Notify(db)
	}))
	if err != nil {
		return focusModel{}, err
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 4000

	m := focusModel{
		store: opts.Store,
		db:    db,
		saver: saver,
		sess:  sess,
		aud:   opts.Audience,
		log:   logging.OrNop(opts.Logger),
		keys:  defaultKeyMap(),
		help:  help.New(),
		bar:   bprogress.New(bprogress.WithDefaultGradient(), bprogress.WithoutPercentage(), bprogress.WithWidth(30)),
		input: input,
	}
	m.ctrl = nav.NewController(m.visibleEntries())
	m.restoreFocus()
	m.syncCursor()
	return m, nil
}

// visibleEntries is the flattened focus list narrowed to the audience.
func (m focusModel) visibleEntries() []nav.Entry {
	all := m.sess.Items()
	out := make([]nav.Entry, 0, len(all))
	for _, e := range all {
		if e.Item.ShownFor(m.aud) {
			out = append(out, e)
		}
	}
	return out
}

func (m *focusModel) restoreFocus() {
	st, err := m.store.LoadFocusState()
	if err != nil {
		m.log.Debug("focus state unreadable", zap.Error(err))
		return
	}
	mark, ok := st.Mark(m.sess.Case().ID)
	if !ok {
		return
	}
	key := nav.Entry{SectionID: mark.SectionID, Item: schema.Item{ID: mark.ItemID}}.Key()
	m.ctrl.JumpToKey(key)
}

func (m *focusModel) saveFocus() {
	if m.store.Dir == "" {
		return
	}
	st, err := m.store.LoadFocusState()
	if err != nil {
		st = &store.FocusState{Version: 1}
	}
	if e, ok := m.ctrl.Current(); ok {
		st.SetMark(m.sess.Case().ID, store.FocusMark{SectionID: e.SectionID, ItemID: e.Item.ID})
	}
	st.Prune(m.db)
	if err := m.store.SaveFocusState(st); err != nil {
		m.log.Warn("save focus state", zap.Error(err))
	}
}

// syncCursor resets the sub-cursor when focus lands on a different entry. Choice items
// start on their current answer.
func (m *focusModel) syncCursor() {
	e, ok := m.ctrl.Current()
	if !ok {
		m.lastKey = ""
		m.cursor = 0
		return
	}
	if e.Key() == m.lastKey {
		return
	}
	m.lastKey = e.Key()
	m.cursor = 0
	if hasOptions(e.Item) {
		if i := m.optionIndex(e.Item, e.Item.Path); i >= 0 {
			m.cursor = i
		}
	}
}

// afterEdit re-flattens: an answer can reveal or hide other items.
func (m *focusModel) afterEdit() {
	m.ctrl.Reset(m.visibleEntries())
	m.syncCursor()
}

func (m *focusModel) setFlash(msg string, isErr bool) {
	m.flash = msg
	m.flashErr = isErr
}

func hasOptions(it schema.Item) bool {
	switch it.Type {
	case schema.ItemRadio, schema.ItemSelect, schema.ItemNumericRating:
		return true
	}
	return false
}

func cursorLen(it schema.Item) int {
	switch it.Type {
	case schema.ItemMultiCheckbox:
		return len(it.SubItems)
	case schema.ItemRadio, schema.ItemSelect, schema.ItemNumericRating:
		return len(it.Options)
	case schema.ItemDualRating:
		return len(schema.DualSides)
	}
	return 0
}

// optionIndex finds the option matching the value stored at path, or -1.
func (m focusModel) optionIndex(it schema.Item, path schema.FieldPath) int {
	v, ok := m.sess.Get(path)
	if !ok || v == nil {
		return -1
	}
	s := ""
	switch x := v.(type) {
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return -1
	}
	for i, o := range it.Options {
		if o.Value == s {
			return i
		}
	}
	return -1
}

func (m focusModel) boolAt(path schema.FieldPath) bool {
	v, _ := m.sess.Get(path)
	b, _ := v.(bool)
	return b
}

// sidePath is the dual-rating side under the cursor.
func (m focusModel) sidePath(it schema.Item) schema.FieldPath {
	i := m.cursor
	if i < 0 || i >= len(schema.DualSides) {
		i = 0
	}
	return it.Path.Child(schema.DualSides[i])
}
