package schema

// Helpers for authoring the static tables in tables.go.

type itemOpt func(*Item)

func newForm(v Variant, title string, sections ...Section) *Form {
	f := &Form{Variant: v, Title: title, Sections: sections}
	for si := range f.Sections {
		sec := &f.Sections[si]
		for ii := range sec.Items {
			it := &sec.Items[ii]
			if it.Path.Empty() {
				it.Path = MustPath(sec.ID, it.ID)
			}
			// N/A flags are declared relative to their section.
			if len(it.NotApplicable) == 1 {
				it.NotApplicable = MustPath(sec.ID, it.NotApplicable[0])
			}
		}
	}
	return f
}

func section(id, title string, items ...Item) Section {
	return Section{ID: id, Title: title, Items: items}
}

func item(t ItemType, id, label string, opts []itemOpt) Item {
	it := Item{ID: id, Label: label, Type: t}
	for _, o := range opts {
		o(&it)
	}
	return it
}

func checkbox(id, label string, opts ...itemOpt) Item {
	return item(ItemCheckbox, id, label, opts)
}

func multi(id, label string, subs []SubItem, opts ...itemOpt) Item {
	it := item(ItemMultiCheckbox, id, label, opts)
	it.SubItems = subs
	return it
}

func radio(id, label string, options []Option, opts ...itemOpt) Item {
	it := item(ItemRadio, id, label, opts)
	it.Options = options
	return it
}

func selectOne(id, label string, options []Option, opts ...itemOpt) Item {
	it := item(ItemSelect, id, label, opts)
	it.Options = options
	return it
}

func text(id, label string, opts ...itemOpt) Item {
	return item(ItemText, id, label, opts)
}

func rating(id, label string, scale []Option, opts ...itemOpt) Item {
	it := item(ItemNumericRating, id, label, opts)
	it.Options = scale
	return it
}

func dual(id, label string, scale []Option, opts ...itemOpt) Item {
	it := item(ItemDualRating, id, label, opts)
	it.Options = scale
	return it
}

func withNA() itemOpt {
	return func(it *Item) { it.NotApplicable = FieldPath{it.ID + "NotApplicable"} }
}

func when(path, value string) itemOpt {
	return func(it *Item) {
		it.ConditionalOn = &Condition{Field: MustPath(path), Mode: CompareEquals, Value: value}
	}
}

func unless(path, value string) itemOpt {
	return func(it *Item) {
		it.ConditionalOn = &Condition{Field: MustPath(path), Mode: CompareNotEquals, Value: value}
	}
}

func today() itemOpt { return func(it *Item) { it.DefaultToday = true } }

func childFirstOnly() itemOpt { return func(it *Item) { it.ChildFirstOnly = true } }

func clinicianOnly() itemOpt { return func(it *Item) { it.ClinicianOnly = true } }

func careCoordinatorOnly() itemOpt { return func(it *Item) { it.CareCoordinatorOnly = true } }

// subs builds sub-items from id,label pairs.
func subs(pairs ...string) []SubItem {
	out := make([]SubItem, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, SubItem{ID: pairs[i], Label: pairs[i+1]})
	}
	return out
}

// opts builds options from value,label pairs.
func opts(pairs ...string) []Option {
	out := make([]Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Option{Value: pairs[i], Label: pairs[i+1]})
	}
	return out
}

func withNAOption(options []Option) []Option {
	out := make([]Option, 0, len(options)+1)
	out = append(out, options...)
	return append(out, Option{Value: "na", Label: "Not applicable", NotApplicable: true})
}
