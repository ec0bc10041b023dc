package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/scenex/internal/ui"
	"github.com/oakwood-commons/scenex/pkg/logger"
	"github.com/oakwood-commons/scenex/pkg/settings"
)

var (
	rulesFile string
	tabWidth  int
	debug     bool
	noColor   bool
	output    string
	logFile   string

	renderSnapshot bool
	snapshotWidth  int
	snapshotHeight int
	startKeys      []string
	settle         bool
)

// closeLog releases the log file opened for the current command.
var closeLog = func() {}

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [file]",
	Short: "Edit YAML map scenes with inline widgets and key suggestions",
	Long: `scenex is a terminal editor for YAML scene files. Lines that match a
widget rule get an inline control (color swatch, option dropdown, toggle) and
the line under the cursor gets key suggestions from the same rule registry.

With no file an empty scene is opened. A file that does not exist yet is
created on save. Use "-" to read the scene from stdin.`,
	Example: "\n  scenex scene.yaml\n  scenex scene.yaml --rules my-rules.yaml\n  scenex widgets scene.yaml -o json\n  scenex scene.yaml --snapshot --press '<Down><C-w>'\n",
	Args:    usageArgs(cobra.MaximumNArgs(1)),
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if tabWidth < 1 {
			return usageErrorf("--tab-width must be at least 1, got %d", tabWidth)
		}
		run := settings.NewCliParams()
		run.RulesFile = rulesFile
		run.TabWidth = tabWidth
		run.NoColor = noColor
		run.LogFile = logFile
		// Map the debug flag to zap levels: debug => -1, else info (0).
		if debug {
			run.MinLogLevel = -1
		}

		// The editor owns the terminal, so it only logs to a file.
		var sink io.Writer = os.Stderr
		if logsToFile(cmd) {
			w, closeFn, err := logger.OpenSink(logFile)
			if err != nil {
				return err
			}
			sink, closeLog = w, closeFn
		}
		lgr := logger.Setup(run.MinLogLevel, sink)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

		ctx := logger.WithLogger(cmd.Context(), lgr)
		cmd.SetContext(settings.IntoContext(ctx, run))
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Sync()
		closeLog()
		closeLog = func() {}
	},
	RunE: runEditor,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print scenex version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}

func runEditor(cmd *cobra.Command, args []string) error {
	run, log := runContext(cmd)
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	text, err := readScene(cmd, path, true)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(run, log)
	if err != nil {
		return err
	}
	if path == "-" {
		path = ""
	}
	if path != "" {
		log = log.WithValues(logger.SceneFileKey, path)
	}

	cfg := ui.Config{
		Path:            path,
		Text:            text,
		Rules:           reg,
		TabWidth:        run.EffectiveTabWidth(),
		ContentDebounce: run.ContentDebounce,
		CursorDebounce:  run.CursorDebounce,
		NoColor:         run.NoColor,
		Log:             log.WithName("ui"),
	}

	if renderSnapshot {
		frame := ui.RenderSnapshot(cfg, ui.SnapshotConfig{
			Width:  snapshotWidth,
			Height: snapshotHeight,
			Keys:   startKeys,
			Settle: settle,
		})
		fmt.Fprintln(cmd.OutOrStdout(), frame)
		return nil
	}

	opts, cleanup := getProgramOptions()
	defer cleanup()
	m, err := ui.Run(cmd.Context(), cfg, opts...)
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if m.Modified() {
		fmt.Fprintln(cmd.ErrOrStderr(), "scenex: quit with unsaved changes")
	}
	return nil
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rulesFile, "rules", "", "path to a YAML, JSON or TOML rules file tried before the built-in rules")
	pf.IntVar(&tabWidth, "tab-width", settings.DefaultTabWidth, "spaces per indent level")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.StringVarP(&output, "output", "o", "table", "report format: table|yaml|json (rules also accepts toml|markdown|html)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file (the editor discards logs otherwise)")

	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render a single editor frame and exit; honors --width/--height")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "snapshot width in columns (default 80)")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "snapshot height in rows (default 24)")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "keys applied before the snapshot. Use <Key> for special keys (e.g. <Down>, <C-w>, <CR>, <Esc>, <S-Tab>); literal text types normally")
	rootCmd.Flags().BoolVar(&settle, "settle", false, "let both debounce timers fire before the snapshot is taken")

	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	rootCmd.AddCommand(versionCmd, addressCmd, widgetsCmd, suggestCmd, rulesCmd, outlineCmd, setCmd)
}

// normalizeFlagName accepts snake_case spellings such as --tab_width.
// logsToFile reports whether cmd logs through --log-file rather than stderr.
// The editor always does, so the terminal stays clean.
func logsToFile(cmd *cobra.Command) bool {
	return !cmd.HasParent() || logFile != ""
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// usageError marks bad flags or arguments.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// ExitCode maps an Execute error to a process exit code: 2 for usage errors,
// 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}
