package cli

import (
	"fmt"

	"fidelity-cli/internal/progress"
	"fidelity-cli/internal/schema"
	"fidelity-cli/internal/session"

	"github.com/spf13/cobra"
)

// openSession loads the store and wraps the chosen case in a read-only session.
func openSession(app *App, caseID string) (*session.FormSession, error) {
	db, _, err := loadDB(app)
	if err != nil {
		return nil, err
	}
	c, err := resolveCase(db, caseID)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(c)
	if err != nil {
		return nil, fmt.Errorf("case %s: %w", c.ID, err)
	}
	return sess, nil
}

func newProgressCmd(app *App) *cobra.Command {
	var caseID string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show overall and per-section completion of a case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, caseID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if detailed {
				return writeOut(cmd, app, sess.Detailed())
			}
			return writeOut(cmd, app, sess.Progress())
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case id (default: current case)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include section titles and filled/slot counts")

	return cmd
}

func newNextCmd(app *App) *cobra.Command {
	var caseID string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the first section that is not yet complete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, caseID)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, ok := sess.NextIncompleteSection()
			if !ok {
				return writeOut(cmd, app, map[string]any{"sectionId": nil, "complete": true})
			}
			sp, _ := sess.Detailed().Section(id)
			return writeOut(cmd, app, map[string]any{
				"sectionId": id,
				"title":     sp.Title,
				"percent":   sp.Percent,
				"complete":  false,
			})
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case id (default: current case)")

	return cmd
}

type itemRow struct {
	SectionID string           `json:"sectionId"`
	ItemID    string           `json:"itemId"`
	Label     string           `json:"label"`
	Type      schema.ItemType  `json:"itemType"`
	Path      schema.FieldPath `json:"path"`
	Value     any              `json:"value"`
	Filled    int              `json:"filled"`
	Slots     int              `json:"slots"`
}

func newItemsCmd(app *App) *cobra.Command {
	var caseID string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the visible items of a case in focus order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			aud, err := app.audience(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(app, caseID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, itemRows(sess, aud))
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case id (default: current case)")

	return cmd
}

func itemRows(sess *session.FormSession, aud schema.Audience) []itemRow {
	tree := sess.Case().ValueTree
	out := []itemRow{}
	for _, e := range sess.Items() {
		if !e.Item.ShownFor(aud) {
			continue
		}
		v, _ := sess.Get(e.Item.Path)
		filled, slots := progress.ItemSlots(e.Item, tree)
		out = append(out, itemRow{
			SectionID: e.SectionID,
			ItemID:    e.Item.ID,
			Label:     e.Item.Label,
			Type:      e.Item.Type,
			Path:      e.Item.Path,
			Value:     v,
			Filled:    filled,
			Slots:     slots,
		})
	}
	return out
}
