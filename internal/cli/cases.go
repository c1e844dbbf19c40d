package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fidelity-cli/internal/model"
	"fidelity-cli/internal/progress"
	"fidelity-cli/internal/schema"
	"fidelity-cli/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type caseSummary struct {
	ID             string         `json:"id"`
	Variant        schema.Variant `json:"variant"`
	Name           string         `json:"name"`
	ClientInitials string         `json:"clientInitials"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Overall        int            `json:"overall"`
	Current        bool           `json:"current"`
}

func summarize(db *store.DB, c *model.Case) caseSummary {
	out := caseSummary{
		ID:             c.ID,
		Variant:        c.SchemaVariant,
		Name:           c.Meta.Name,
		ClientInitials: c.Meta.ClientInitials,
		CreatedAt:      c.Meta.CreatedAt,
		UpdatedAt:      c.Meta.UpdatedAt,
		Current:        db.CurrentCaseID == c.ID,
	}
	if form, ok := schema.For(c.SchemaVariant); ok {
		out.Overall = progress.Compute(form, c.ValueTree).Overall
	}
	return out
}

func newCasesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Create, select and move cases",
	}

	cmd.AddCommand(newCasesNewCmd(app))
	cmd.AddCommand(newCasesListCmd(app))
	cmd.AddCommand(newCasesShowCmd(app))
	cmd.AddCommand(newCasesUseCmd(app))
	cmd.AddCommand(newCasesRmCmd(app))
	cmd.AddCommand(newCasesDupCmd(app))
	cmd.AddCommand(newCasesRenameCmd(app))
	cmd.AddCommand(newCasesExportCmd(app))
	cmd.AddCommand(newCasesImportCmd(app))

	return cmd
}

func newCasesNewCmd(app *App) *cobra.Command {
	var variant string
	var name string
	var initials string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a case from a form variant and make it current",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := schema.ParseVariant(variant)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, ok := db.CreateCase(v, name, initials)
			if !ok {
				return writeErr(cmd, fmt.Errorf("no form for variant %q", v))
			}
			if err := saveDB(app, s, db, "case created"); err != nil {
				return writeErr(cmd, err)
			}
			c, _ := db.FindCase(id)
			return writeOut(cmd, app, summarize(db, c))
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "Form variant (see `fidelity schema`)")
	cmd.Flags().StringVar(&name, "name", "", "Case name")
	cmd.Flags().StringVar(&initials, "initials", "", "Client initials")
	_ = cmd.MarkFlagRequired("variant")

	return cmd
}

func newCasesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cases with their overall progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cases := db.OrderedCases()
			out := make([]caseSummary, 0, len(cases))
			for i := range cases {
				out = append(out, summarize(db, &cases[i]))
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newCasesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [case-id]",
		Short: "Show a case with its answers and section progress",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			c, err := resolveCase(db, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := map[string]any{
				"case":    c,
				"summary": summarize(db, c),
			}
			if form, ok := schema.For(c.SchemaVariant); ok {
				out["progress"] = progress.ComputeDetailed(form, c.ValueTree)
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newCasesUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <case-id>",
		Short: "Make a case current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !db.SelectCase(args[0]) {
				return writeErr(cmd, errNotFound("case", args[0]))
			}
			if err := saveDB(app, s, db, "case selected"); err != nil {
				return writeErr(cmd, err)
			}
			c, _ := db.Current()
			return writeOut(cmd, app, summarize(db, c))
		},
	}
}

func newCasesRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <case-id>",
		Short: "Delete a case (unknown ids are a no-op)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			deleted := db.DeleteCase(args[0])
			if deleted {
				if err := saveDB(app, s, db, "case deleted"); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"id":            args[0],
				"deleted":       deleted,
				"currentCaseId": db.CurrentCaseID,
			})
		},
	}
}

func newCasesDupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dup <case-id>",
		Short: "Duplicate a case under a new id and make the copy current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, ok := db.DuplicateCase(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("case", args[0]))
			}
			if err := saveDB(app, s, db, "case duplicated"); err != nil {
				return writeErr(cmd, err)
			}
			c, _ := db.FindCase(id)
			return writeOut(cmd, app, summarize(db, c))
		},
	}
}

func newCasesRenameCmd(app *App) *cobra.Command {
	var name string
	var initials string

	cmd := &cobra.Command{
		Use:   "rename <case-id>",
		Short: "Change a case's name or client initials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var namePtr, initialsPtr *string
			if cmd.Flags().Changed("name") {
				namePtr = &name
			}
			if cmd.Flags().Changed("initials") {
				initialsPtr = &initials
			}
			if namePtr == nil && initialsPtr == nil {
				return writeErr(cmd, errors.New("nothing to change; pass --name and/or --initials"))
			}
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !db.UpdateMeta(args[0], namePtr, initialsPtr) {
				return writeErr(cmd, errNotFound("case", args[0]))
			}
			if err := saveDB(app, s, db, "case renamed"); err != nil {
				return writeErr(cmd, err)
			}
			c, _ := db.FindCase(args[0])
			return writeOut(cmd, app, summarize(db, c))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New case name")
	cmd.Flags().StringVar(&initials, "initials", "", "New client initials")

	return cmd
}

func newCasesExportCmd(app *App) *cobra.Command {
	var outPath string
	var raw bool

	cmd := &cobra.Command{
		Use:   "export <case-id>",
		Short: "Export a case's meta and answers as a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, ok := db.ExportCase(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("case", args[0]))
			}
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(doc+"\n"), 0o644); err != nil {
					return writeErr(cmd, err)
				}
				app.logger().Info("case exported", zap.String("caseId", args[0]), zap.String("path", outPath))
				return writeOut(cmd, app, map[string]any{"id": args[0], "path": outPath})
			}
			if raw {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), doc)
				return err
			}
			return writeOut(cmd, app, json.RawMessage(doc))
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write the document to this file instead of stdout")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the bare document (no JSON envelope)")

	return cmd
}

func newCasesImportCmd(app *App) *cobra.Command {
	var fallback string

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import an exported document as a new current case",
		Long: strings.TrimSpace(`
Import reads a document written by "fidelity cases export" (or "-" for stdin).
The imported case always gets a fresh id. Documents without a schemaVariant
use --variant. A rejected document leaves the store unchanged.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := db.ImportCaseDetailed(data, schema.Variant(fallback))
			if err != nil {
				app.logger().Warn("import rejected", zap.String("source", args[0]), zap.Error(err))
				return writeErr(cmd, err)
			}
			if err := saveDB(app, s, db, "case imported"); err != nil {
				return writeErr(cmd, err)
			}
			c, _ := db.FindCase(id)
			return writeOut(cmd, app, summarize(db, c))
		},
	}

	cmd.Flags().StringVar(&fallback, "variant", string(schema.VariantLegacy), "Form variant for documents that do not name one")

	return cmd
}

func readInput(cmd *cobra.Command, src string) ([]byte, error) {
	if src == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(src)
}
