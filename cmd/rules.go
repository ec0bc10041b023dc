package cmd

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/scenex/internal/formatter"
	"github.com/oakwood-commons/scenex/internal/limiter"
	"github.com/oakwood-commons/scenex/internal/rules"
)

var (
	rulesDefaults bool
	rulesLimit    limiter.Config
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective widget rule registry",
	Long: `Print the rules in priority order: rules from --rules first, then the
built-in rules. The first rule matching a line decides its widget.

The yaml, json and toml outputs are valid rules files and can be edited and
passed back with --rules.`,
	Example: "  scenex rules\n  scenex rules --defaults -o yaml > my-rules.yaml\n  scenex rules --rules my-rules.yaml -o markdown",
	Args:    usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		run, log := runContext(cmd)
		var descs []rules.Descriptor
		if rulesDefaults {
			d, err := rules.DefaultDescriptors()
			if err != nil {
				return err
			}
			descs = d
		} else {
			reg, err := loadRegistry(run, log)
			if err != nil {
				return err
			}
			descs = reg.Descriptors()
		}
		descs, err := limitRows(rulesLimit, descs)
		if err != nil {
			return err
		}
		return writeRules(cmd, descs)
	},
}

func writeRules(cmd *cobra.Command, descs []rules.Descriptor) error {
	out := cmd.OutOrStdout()
	file := rules.File{Rules: descs}
	switch strings.ToLower(output) {
	case "markdown", "md":
		fmt.Fprint(out, formatter.RulesMarkdown(descs))
		return nil
	case "html":
		fmt.Fprint(out, formatter.RulesHTML(descs))
		return nil
	case "toml":
		b, err := toml.Marshal(file)
		if err != nil {
			return fmt.Errorf("encode rules: %w", err)
		}
		fmt.Fprint(out, ensureNewline(string(b)))
		return nil
	case "yaml", "json":
		return writeReport(cmd, file, formatter.Table{})
	case "", "table":
		return writeReport(cmd, nil, formatter.RulesTable(descs))
	default:
		return usageErrorf("unsupported output %q for rules (want table, yaml, json, toml, markdown or html)", output)
	}
}

func init() { //nolint:gochecknoinits
	rulesCmd.Flags().BoolVar(&rulesDefaults, "defaults", false, "print only the built-in rules, ignoring --rules")
	rulesLimit.AddFlags(rulesCmd.Flags())
}
