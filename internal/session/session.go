package session

import (
	"errors"
	"time"

	"fidelity-cli/internal/model"
	"fidelity-cli/internal/nav"
	"fidelity-cli/internal/progress"
	"fidelity-cli/internal/schema"
)

// FormSession owns the schema, the case being edited and a progress cache that is
// dropped on every write. Everything derived (progress, visibility, the focus list)
// is read through it.
type FormSession struct {
	form *schema.Form
	c    *model.Case

	cache *progress.Detailed

	onChange func(*model.Case)
	now      func() time.Time
}

type Option func(*FormSession)

// WithOnChange registers a hook called after every edit (typically a debounced save).
func WithOnChange(fn func(*model.Case)) Option {
	return func(s *FormSession) { s.onChange = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *FormSession) { s.now = now }
}

func New(c *model.Case, opts ...Option) (*FormSession, error) {
	if c == nil {
		return nil, errors.New("nil case")
	}
	form, ok := schema.For(c.SchemaVariant)
	if !ok {
		return nil, errors.New("unknown form variant: " + string(c.SchemaVariant))
	}
	return NewWithForm(form, c, opts...), nil
}

// NewWithForm binds an explicit form, for callers (and tests) that build their own schema.
func NewWithForm(form *schema.Form, c *model.Case, opts ...Option) *FormSession {
	s := &FormSession{form: form, c: c, now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(s)
	}
	if s.c.ValueTree == nil {
		s.c.ValueTree = model.ValueTree{}
	}
	return s
}

func (s *FormSession) Form() *schema.Form { return s.form }

func (s *FormSession) Case() *model.Case { return s.c }

func (s *FormSession) Get(path schema.FieldPath) (any, bool) {
	return s.c.ValueTree.Lookup(path)
}

// Set writes one value, invalidates the progress cache and notifies the change hook.
func (s *FormSession) Set(path schema.FieldPath, v any) {
	if path.Empty() {
		return
	}
	s.c.ValueTree.Set(path, v)
	s.c.Meta.UpdatedAt = s.now()
	s.cache = nil
	if s.onChange != nil {
		s.onChange(s.c)
	}
}

// SetInput coerces user text by the schema's item type, then sets it.
func (s *FormSession) SetInput(path schema.FieldPath, raw string) error {
	v, err := s.form.CoerceInput(path, raw)
	if err != nil {
		return err
	}
	s.Set(path, v)
	return nil
}

func (s *FormSession) Detailed() progress.Detailed {
	if s.cache == nil {
		d := progress.ComputeDetailed(s.form, s.c.ValueTree)
		s.cache = &d
	}
	return *s.cache
}

func (s *FormSession) Progress() progress.Snapshot {
	return s.Detailed().Snapshot()
}

func (s *FormSession) Visible(it schema.Item) bool {
	return progress.IsVisible(it, s.c.ValueTree)
}

func (s *FormSession) Items() []nav.Entry {
	return nav.FlattenVisibleItems(s.form, s.c.ValueTree)
}

func (s *FormSession) NextIncompleteSection() (string, bool) {
	return nav.NextIncompleteSection(s.form, s.Progress())
}
