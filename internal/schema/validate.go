package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate checks the internal consistency of a form table. A failure here is a
// programming error in the static tables, never a runtime data problem.
func (f *Form) Validate() error {
	if f == nil {
		return errors.New("nil form")
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: "+format, append([]any{f.Variant}, args...)...))
	}

	sectionIDs := map[string]bool{}
	itemIDs := map[string]bool{}
	paths := map[string]string{}
	declared := map[string]bool{}

	for _, sec := range f.Sections {
		if strings.TrimSpace(sec.ID) == "" {
			fail("section with empty id")
		}
		if sectionIDs[sec.ID] {
			fail("duplicate section id %q", sec.ID)
		}
		sectionIDs[sec.ID] = true

		for _, it := range sec.Items {
			if strings.TrimSpace(it.ID) == "" {
				fail("section %q: item with empty id", sec.ID)
				continue
			}
			if itemIDs[it.ID] {
				fail("duplicate item id %q", it.ID)
			}
			itemIDs[it.ID] = true

			if it.Path.Empty() {
				fail("item %q: empty path", it.ID)
			} else if prev, ok := paths[it.Path.String()]; ok {
				fail("item %q: path %q already used by %q", it.ID, it.Path, prev)
			} else {
				paths[it.Path.String()] = it.ID
				declared[it.Path.String()] = true
			}
			if !it.NotApplicable.Empty() {
				if it.Type != ItemCheckbox {
					fail("item %q: only checkboxes carry an N/A flag", it.ID)
				}
				if prev, ok := paths[it.NotApplicable.String()]; ok {
					fail("item %q: N/A path %q already used by %q", it.ID, it.NotApplicable, prev)
				}
				paths[it.NotApplicable.String()] = it.ID
			}

			switch it.Type {
			case ItemCheckbox, ItemText:
			case ItemMultiCheckbox:
				if len(it.SubItems) == 0 {
					fail("item %q: multiCheckbox without sub-items", it.ID)
				}
				seen := map[string]bool{}
				for _, s := range it.SubItems {
					if strings.TrimSpace(s.ID) == "" || seen[s.ID] {
						fail("item %q: empty or duplicate sub-item id %q", it.ID, s.ID)
					}
					seen[s.ID] = true
				}
			case ItemRadio, ItemSelect:
				if len(it.Options) == 0 {
					fail("item %q: %s without options", it.ID, it.Type)
				}
				seen := map[string]bool{}
				for _, o := range it.Options {
					if o.Value == "" || seen[o.Value] {
						fail("item %q: empty or duplicate option %q", it.ID, o.Value)
					}
					seen[o.Value] = true
				}
			case ItemNumericRating, ItemDualRating:
				if _, _, ok := it.RatingRange(); !ok {
					fail("item %q: rating without numeric options", it.ID)
				}
				for _, o := range it.Options {
					if o.NotApplicable {
						continue
					}
					if _, err := strconv.Atoi(o.Value); err != nil {
						fail("item %q: non-integer rating option %q", it.ID, o.Value)
					}
				}
			default:
				fail("item %q: unknown item type %q", it.ID, it.Type)
			}
		}
	}

	// Conditions must point at a declared field so the fail-open path is never taken
	// with the shipped tables.
	for _, sec := range f.Sections {
		for _, it := range sec.Items {
			c := it.ConditionalOn
			if c == nil {
				continue
			}
			if c.Mode != CompareEquals && c.Mode != CompareNotEquals {
				fail("item %q: unknown condition mode %q", it.ID, c.Mode)
			}
			if c.Field.Empty() {
				fail("item %q: condition without field path", it.ID)
				continue
			}
			if !declared[c.Field.String()] {
				fail("item %q: condition references undeclared field %q", it.ID, c.Field)
			}
			if c.Field.Equal(it.Path) {
				fail("item %q: condition references itself", it.ID)
			}
		}
	}

	return errors.Join(errs...)
}
