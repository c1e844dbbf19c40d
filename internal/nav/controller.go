package nav

// Controller is the focus-mode cursor over a flattened entry list. Moves outside
// [0, Len()-1] are no-ops; there is no terminal state.
type Controller struct {
	entries []Entry
	index   int
}

func NewController(entries []Entry) *Controller {
	return &Controller{entries: entries}
}

func (c *Controller) Len() int { return len(c.entries) }

func (c *Controller) Index() int { return c.index }

func (c *Controller) Entries() []Entry { return c.entries }

func (c *Controller) Current() (Entry, bool) {
	if c.index < 0 || c.index >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[c.index], true
}

func (c *Controller) Next() bool { return c.step(Next) }

func (c *Controller) Prev() bool { return c.step(Prev) }

func (c *Controller) step(dir Direction) bool {
	next := Advance(c.index, dir, len(c.entries))
	moved := next != c.index
	c.index = next
	return moved
}

// JumpTo moves to index i; out-of-range indices leave the cursor where it is.
func (c *Controller) JumpTo(i int) bool {
	if i < 0 || i >= len(c.entries) {
		return false
	}
	c.index = i
	return true
}

// JumpToSection moves to the first entry of a section.
func (c *Controller) JumpToSection(sectionID string) bool {
	for i, e := range c.entries {
		if e.SectionID == sectionID {
			c.index = i
			return true
		}
	}
	return false
}

// JumpToKey moves to the entry with the given Key.
func (c *Controller) JumpToKey(key string) bool {
	for i, e := range c.entries {
		if e.Key() == key {
			c.index = i
			return true
		}
	}
	return false
}

// Reset swaps in a re-flattened list (visibility may have changed after an edit). The
// cursor stays on the same entry when it is still listed; otherwise it lands on the
// nearest surviving position.
func (c *Controller) Reset(entries []Entry) {
	cur, ok := c.Current()
	c.entries = entries
	if ok && c.JumpToKey(cur.Key()) {
		return
	}
	if c.index > len(entries)-1 {
		c.index = len(entries) - 1
	}
	if c.index < 0 {
		c.index = 0
	}
}
