package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next        key.Binding
	Prev        key.Binding
	NextSection key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	Edit        key.Binding
	Clear       key.Binding
	NA          key.Binding
	Rate        key.Binding
	Save        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:        key.NewBinding(key.WithKeys("n", "tab"), key.WithHelp("n/tab", "next item")),
		Prev:        key.NewBinding(key.WithKeys("p", "shift+tab"), key.WithHelp("p/S-tab", "prev item")),
		NextSection: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "next incomplete section")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "lower")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "higher")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle/choose")),
		Edit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/choose")),
		Clear:       key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("bksp", "clear")),
		NA:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle N/A")),
		Rate:        key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "rate")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save now")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Toggle, k.Rate, k.NextSection, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.NextSection},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Edit, k.Clear, k.NA, k.Rate},
		{k.Save, k.Help, k.Quit},
	}
}
