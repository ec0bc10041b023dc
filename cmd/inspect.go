package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/scenex/internal/color"
	"github.com/oakwood-commons/scenex/internal/formatter"
	"github.com/oakwood-commons/scenex/internal/limiter"
	"github.com/oakwood-commons/scenex/internal/widgets"
)

var (
	lineNumber   int
	widgetsLimit limiter.Config
)

type addressReport struct {
	Line    int      `json:"line" yaml:"line"`
	Key     string   `json:"key,omitempty" yaml:"key,omitempty"`
	Parents []string `json:"parents" yaml:"parents"`
	Address string   `json:"address" yaml:"address"`
}

var addressCmd = &cobra.Command{
	Use:   "address FILE",
	Short: "Print the key address of a scene line",
	Long: `Print the chain of keys leading to a line, joined with ':'.
Blank and comment lines take the address of the key block they sit in.`,
	Example: "  scenex address scene.yaml --line 7\n  scenex address scene.yaml --line 7 -o json",
	Args:    usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd, args[0])
		if err != nil {
			return err
		}
		line, err := ws.line(lineNumber)
		if err != nil {
			return err
		}
		rep := addressReport{
			Line:    lineNumber,
			Parents: append([]string{}, ws.Parents(line)...),
			Address: ws.Address(line).String(),
		}
		if key, ok := ws.Key(line); ok {
			rep.Key = key
		}
		ws.log.V(1).Info("address resolved", "address", rep.Address)

		if strings.EqualFold(output, "table") || output == "" {
			fmt.Fprintln(cmd.OutOrStdout(), rep.Address)
			return nil
		}
		return writeReport(cmd, rep, formatter.Table{})
	},
}

type widgetReport struct {
	Line    int      `json:"line" yaml:"line"`
	Kind    string   `json:"kind" yaml:"kind"`
	Rule    string   `json:"rule,omitempty" yaml:"rule,omitempty"`
	Address string   `json:"address" yaml:"address"`
	Value   string   `json:"value" yaml:"value"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	Checked *bool    `json:"checked,omitempty" yaml:"checked,omitempty"`
	Color   string   `json:"color,omitempty" yaml:"color,omitempty"`
}

func newWidgetReport(w widgets.Widget) widgetReport {
	rep := widgetReport{
		Line:    w.Line + 1,
		Kind:    string(w.Kind),
		Rule:    w.Rule,
		Address: w.Path().String(),
		Value:   w.Value,
	}
	switch w.Kind {
	case widgets.KindDropdown:
		rep.Options = w.Options
	case widgets.KindToggle:
		checked := w.Checked
		rep.Checked = &checked
	case widgets.KindColor:
		rep.Color = color.CSS(w.Color)
	}
	return rep
}

// detail is the table cell describing the control state.
func (r widgetReport) detail() string {
	switch {
	case r.Color != "":
		return r.Color
	case r.Checked != nil:
		return strconv.FormatBool(*r.Checked)
	case len(r.Options) > 0:
		return strings.Join(r.Options, "|")
	}
	return ""
}

var widgetsCmd = &cobra.Command{
	Use:     "widgets FILE",
	Short:   "List the inline widgets a scene gets",
	Example: "  scenex widgets scene.yaml\n  scenex widgets scene.yaml --rules my-rules.yaml -o yaml",
	Args:    usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd, args[0])
		if err != nil {
			return err
		}
		ws.printWarnings(cmd.ErrOrStderr())

		all, err := limitRows(widgetsLimit, ws.Widgets())
		if err != nil {
			return err
		}
		reports := []widgetReport{}
		t := formatter.Table{Columns: []string{"LINE", "KIND", "ADDRESS", "VALUE", "STATE", "RULE"}}
		for _, w := range all {
			rep := newWidgetReport(w)
			reports = append(reports, rep)
			t.Rows = append(t.Rows, []string{strconv.Itoa(rep.Line), rep.Kind, rep.Address, rep.Value, rep.detail(), rep.Rule})
		}
		return writeReport(cmd, reports, t)
	},
}

type suggestReport struct {
	Line       int      `json:"line" yaml:"line"`
	Address    string   `json:"address" yaml:"address"`
	Indent     int      `json:"indent" yaml:"indent"`
	Candidates []string `json:"candidates" yaml:"candidates"`
}

var suggestCmd = &cobra.Command{
	Use:   "suggest FILE",
	Short: "List the keys suggested for a scene line",
	Long: `List the child keys a rule offers for the line's address that the scene
does not define yet. Nothing is printed when there is nothing to suggest.`,
	Example: "  scenex suggest scene.yaml --line 9",
	Args:    usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd, args[0])
		if err != nil {
			return err
		}
		line, err := ws.line(lineNumber)
		if err != nil {
			return err
		}

		rep := suggestReport{Line: lineNumber, Candidates: []string{}}
		t := formatter.Table{Columns: []string{"#", "KEY", "INSERTS"}}
		if p := ws.Suggest(line); p != nil {
			rep.Address = p.Address.String()
			rep.Indent = p.Indent
			pad := strings.Repeat(" ", p.Indent*ws.TabWidth())
			for i, c := range p.Candidates {
				rep.Candidates = append(rep.Candidates, c)
				t.Rows = append(t.Rows, []string{strconv.Itoa(i + 1), c, strconv.Quote(pad + c + ":")})
			}
		} else {
			rep.Address = ws.Address(line).String()
			ws.log.V(1).Info("nothing to suggest", "address", rep.Address)
		}
		return writeReport(cmd, rep, t)
	},
}

func init() { //nolint:gochecknoinits
	for _, c := range []*cobra.Command{addressCmd, suggestCmd} {
		c.Flags().IntVarP(&lineNumber, "line", "l", 0, "1-based line number (required)")
	}
	widgetsLimit.AddFlags(widgetsCmd.Flags())
}
