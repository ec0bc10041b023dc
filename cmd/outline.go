package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/scenex/internal/color"
	"github.com/oakwood-commons/scenex/internal/formatter"
	"github.com/oakwood-commons/scenex/internal/widgets"
	"github.com/oakwood-commons/scenex/pkg/loader"
)

var (
	outlineNoValues bool
	outlineDepth    int
	outlineNoMarks  bool
)

var outlineCmd = &cobra.Command{
	Use:   "outline FILE",
	Short: "Draw the key tree of a scene",
	Long: `Draw the parsed scene as a tree with keys in sorted order. Keys that carry
an inline widget are marked with it. TOML files are outlined without marks.`,
	Example: "  scenex outline scene.yaml\n  scenex outline scene.yaml --no-values --depth 2",
	Args:    usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if outlineDepth < 0 {
			return usageErrorf("--depth must not be negative, got %d", outlineDepth)
		}
		opts := formatter.OutlineOptions{NoValues: outlineNoValues, MaxDepth: outlineDepth}
		path := args[0]

		var tree any
		if loader.FormatFromPath(path) == loader.FormatTOML {
			t, err := loader.LoadFile(path)
			if err != nil {
				return err
			}
			tree = t
		} else {
			ws, err := openWorkspace(cmd, path)
			if err != nil {
				return err
			}
			ws.printWarnings(cmd.ErrOrStderr())
			tree = ws.Tree()
			if !outlineNoMarks {
				opts.Marks = widgetMarks(ws.Widgets())
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOutline(tree, opts))
		return nil
	},
}

// widgetMarks labels each widget key by its address.
func widgetMarks(ws []widgets.Widget) map[string]string {
	marks := make(map[string]string, len(ws))
	for _, w := range ws {
		mark := string(w.Kind)
		switch w.Kind {
		case widgets.KindColor:
			mark += " " + color.CSS(w.Color)
		case widgets.KindToggle:
			if w.Checked {
				mark += " on"
			} else {
				mark += " off"
			}
		case widgets.KindDropdown:
			mark += fmt.Sprintf(" %d options", len(w.Options))
		}
		marks[w.Path().String()] = mark
	}
	return marks
}

func init() { //nolint:gochecknoinits
	outlineCmd.Flags().BoolVar(&outlineNoValues, "no-values", false, "show keys only")
	outlineCmd.Flags().IntVar(&outlineDepth, "depth", 0, "limit nesting depth (0 = unlimited)")
	outlineCmd.Flags().BoolVar(&outlineNoMarks, "no-marks", false, "do not mark keys that carry a widget")
}
