package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"textchunk/internal/version"
)

// errSilent завершает процесс с кодом 1 без повторной печати:
// диагностики уже выведены.
var errSilent = errors.New("")

var runCleanup = func() {}

var rootCmd = &cobra.Command{
	Use:   "textchunk",
	Short: "Split text into typed, length-bounded chunks",
	Long: `textchunk segments text into headings, sentences, lists, tables, code blocks
and other structural chunks using an ordered table of grammar rules.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		runCleanup = func() {
			stopTracing()
			stopProfiling()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runCleanup()
		runCleanup = func() {}
	},
}

func init() {
	rootCmd.AddCommand(chunkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
	registerRootFlags(rootCmd.PersistentFlags())
}

// registerRootFlags adds the global flags shared by every subcommand.
func registerRootFlags(f *pflag.FlagSet) {
	f.String("color", "auto", "colorize output (auto|on|off)")
	f.Bool("quiet", false, "suppress non-essential output")
	f.Bool("timings", false, "show timing information")
	f.Int("max-diagnostics", 100, "maximum number of diagnostics to keep per input")
	f.String("trace", "", "write trace events to a file (- for stderr)")
	f.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	f.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	f.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	f.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")
	f.String("cpu-profile", "", "write a CPU profile to this file")
	f.String("mem-profile", "", "write a heap profile to this file on exit")
	f.String("runtime-trace", "", "write a Go runtime execution trace to this file")
}

// main executes the root command. Any error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	err := rootCmd.Execute()
	if err != nil {
		// PersistentPostRun не вызывается при ошибке
		runCleanup()
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the terminal state of f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return f != nil && isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// terminalWidth returns the column count of f, or 0 when f is not a terminal.
func terminalWidth(f *os.File) int {
	if f == nil || !isTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// stdoutFile returns the command's stdout when it is a real file.
func stdoutFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return nil
}

// stderrFile returns the command's stderr when it is a real file.
func stderrFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		return f
	}
	return nil
}
