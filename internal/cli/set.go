package cli

import (
	"fmt"

	"fidelity-cli/internal/progress"
	"fidelity-cli/internal/schema"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSetCmd(app *App) *cobra.Command {
	var caseID string

	cmd := &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Answer one field of a case",
		Long: `Set stores one answer. The path is dotted (section.item, or section.item.sub for
checkbox groups and dual ratings). The value is read according to the item type:
checkboxes take yes/no, choices take an option value or label, ratings take an
integer in range, and an empty value clears a choice or rating.`,
		Example: `  fidelity set caseInfo.clientInitials AB
  fidelity set strands.dyadic 2
  fidelity set modalities.used.play yes
  fidelity set reflectiveSupervision.exploresReactions.clinician 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := resolveCase(db, caseID)
			if err != nil {
				return writeErr(cmd, err)
			}
			form, ok := schema.For(c.SchemaVariant)
			if !ok {
				return writeErr(cmd, fmt.Errorf("case %s has unknown variant %q", c.ID, c.SchemaVariant))
			}
			path, err := schema.ParsePath(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			v, err := form.CoerceInput(path, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !db.SetField(c.ID, path, v) {
				return writeErr(cmd, errNotFound("case", c.ID))
			}
			app.logger().Debug("field set", zap.String("caseId", c.ID), zap.String("path", path.String()))
			if err := saveDB(app, s, db, "field saved"); err != nil {
				return writeErr(cmd, err)
			}
			stored, _ := c.ValueTree.Lookup(path)
			return writeOut(cmd, app, map[string]any{
				"caseId":   c.ID,
				"path":     path.String(),
				"value":    stored,
				"progress": progress.Compute(form, c.ValueTree),
			})
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case id (default: current case)")

	return cmd
}
