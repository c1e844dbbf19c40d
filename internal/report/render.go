package report

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
)

// StyleFor picks a glamour style for w: notty for pipes and files, otherwise the
// FIDELITY_MD_STYLE override or dark.
func StyleFor(w io.Writer) string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FIDELITY_MD_STYLE"))) {
	case "light":
		return styles.LightStyle
	case "dark":
		return styles.DarkStyle
	case "notty", "plain":
		return styles.NoTTYStyle
	}
	if termenv.NewOutput(w).Profile == termenv.Ascii {
		return styles.NoTTYStyle
	}
	return styles.DarkStyle
}

// Render formats markdown for a terminal. A fixed style avoids WithAutoStyle's terminal
// queries, which can block.
func Render(md, style string, width int) (string, error) {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
