package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/scenex/internal/formatter"
	"github.com/oakwood-commons/scenex/internal/limiter"
	"github.com/oakwood-commons/scenex/internal/rules"
	"github.com/oakwood-commons/scenex/internal/scene"
	"github.com/oakwood-commons/scenex/pkg/core"
	"github.com/oakwood-commons/scenex/pkg/loader"
	"github.com/oakwood-commons/scenex/pkg/logger"
	"github.com/oakwood-commons/scenex/pkg/settings"
)

// runContext returns the run settings and logger stored by PersistentPreRunE.
func runContext(cmd *cobra.Command) (*settings.Run, logr.Logger) {
	ctx := cmd.Context()
	run, ok := settings.FromContext(ctx)
	if !ok {
		run = settings.NewCliParams()
	}
	return run, *logger.FromContext(ctx)
}

// readScene returns the scene text at path. An empty path is an empty scene
// and "-" reads stdin. allowMissing lets a file that does not exist yet read
// as empty.
func readScene(cmd *cobra.Command, path string, allowMissing bool) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	text, missing, err := loader.ReadText(path)
	if err != nil {
		return "", err
	}
	if missing && !allowMissing {
		return "", fmt.Errorf("scene file %s does not exist", path)
	}
	return text, nil
}

func loadRegistry(run *settings.Run, log logr.Logger) (*rules.Registry, error) {
	reg, err := rules.Load(log.WithName("rules"), run.RulesFile)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("rule registry ready", "rules", reg.Len(), "file", run.RulesFile)
	return reg, nil
}

// workspace is a scene opened from the command line.
type workspace struct {
	*core.Scene
	path string
	log  logr.Logger
}

// openWorkspace loads the scene at path, parses it and runs one
// widget synchronization pass. A scene that does not parse is an error.
func openWorkspace(cmd *cobra.Command, path string) (*workspace, error) {
	run, log := runContext(cmd)
	text, err := readScene(cmd, path, false)
	if err != nil {
		return nil, err
	}
	reg, err := loadRegistry(run, log)
	if err != nil {
		return nil, err
	}
	if path != "-" {
		log = log.WithValues(logger.SceneFileKey, path)
	}
	sc, err := core.Open(text,
		core.WithRules(reg),
		core.WithTabWidth(run.EffectiveTabWidth()),
		core.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return &workspace{Scene: sc, path: path, log: log}, nil
}

// line converts a 1-based --line value to a line index.
func (ws *workspace) line(n int) (int, error) {
	if n < 1 || n > ws.LineCount() {
		return 0, usageErrorf("--line %d is outside the scene (1-%d)", n, ws.LineCount())
	}
	ws.log = ws.log.WithValues(logger.LineKey, n)
	return n - 1, nil
}

// printWarnings reports duplicate keys and other parse warnings on stderr.
func (ws *workspace) printWarnings(w io.Writer) {
	for _, e := range ws.Warnings() {
		fmt.Fprintf(w, "warning: %s\n", scene.Summary(e))
	}
}

// writeReport prints v as yaml or json, or t as a table, according to
// --output.
func writeReport(cmd *cobra.Command, v any, t formatter.Table) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(output) {
	case "", "table":
		if len(t.Rows) == 0 {
			return nil
		}
		fmt.Fprint(out, formatter.RenderTable(t, formatter.TableOptions{
			NoColor:  noColor,
			MaxWidth: formatter.TerminalWidth(),
		}))
		return nil
	case "yaml":
		s, err := formatter.FormatYAML(v, formatter.YAMLFormatOptions{})
		if err != nil {
			return err
		}
		fmt.Fprint(out, ensureNewline(s))
		return nil
	case "json":
		s, err := formatter.FormatJSON(v)
		if err != nil {
			return err
		}
		fmt.Fprint(out, ensureNewline(s))
		return nil
	default:
		return usageErrorf("unsupported output %q (want table, yaml or json)", output)
	}
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// limitRows applies --limit, --offset and --tail to report rows.
func limitRows[T any](c limiter.Config, rows []T) ([]T, error) {
	if err := c.Validate(); err != nil {
		return nil, usageError{err}
	}
	return limiter.Apply(c, rows), nil
}
