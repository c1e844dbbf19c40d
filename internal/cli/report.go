package cli

import (
	"fmt"
	"os"

	"fidelity-cli/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReportCmd(app *App) *cobra.Command {
	var caseID string
	var render bool
	var raw bool
	var hidden bool
	var outPath string
	var width int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a markdown report of a case's answers",
		Example: `  fidelity report --render
  fidelity report --case <case-id> --out intake.md
  fidelity report --raw --hidden`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			aud, err := app.audience(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(app, caseID)
			if err != nil {
				return writeErr(cmd, err)
			}
			md, err := report.Markdown(sess.Form(), sess.Case(), report.Options{Audience: aud, IncludeHidden: hidden})
			if err != nil {
				return writeErr(cmd, err)
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
					return writeErr(cmd, err)
				}
				app.logger().Info("report written", zap.String("caseId", sess.Case().ID), zap.String("path", outPath))
				return writeOut(cmd, app, map[string]any{"caseId": sess.Case().ID, "path": outPath})
			}
			if render {
				out, err := report.Render(md, report.StyleFor(cmd.OutOrStdout()), width)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			return writeOut(cmd, app, map[string]any{"caseId": sess.Case().ID, "markdown": md})
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case id (default: current case)")
	cmd.Flags().BoolVar(&render, "render", false, "Render the markdown for the terminal")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Also list items hidden by their conditions")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the markdown to this file")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")

	return cmd
}
