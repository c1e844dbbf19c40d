package cli

import (
	"github.com/spf13/cobra"

	"fidelity-cli/internal/schema"
)

type variantInfo struct {
	Variant  schema.Variant `json:"variant"`
	Title    string         `json:"title"`
	Sections int            `json:"sections"`
	Items    int            `json:"items"`
}

func newSchemaCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [variant]",
		Short: "List form variants, or dump one variant's sections and field paths",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				out := []variantInfo{}
				for _, v := range schema.Variants() {
					f, ok := schema.For(v)
					if !ok {
						continue
					}
					out = append(out, variantInfo{
						Variant:  v,
						Title:    f.Title,
						Sections: len(f.Sections),
						Items:    f.ItemCount(),
					})
				}
				return writeOut(cmd, app, out)
			}

			v, err := schema.ParseVariant(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			f, ok := schema.For(v)
			if !ok {
				return writeErr(cmd, errNotFound("form variant", args[0]))
			}
			return writeOut(cmd, app, f)
		},
	}
}
