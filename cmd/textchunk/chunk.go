package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"textchunk/internal/cache"
	"textchunk/internal/chunk"
	"textchunk/internal/chunkfmt"
	"textchunk/internal/diag"
	"textchunk/internal/diagfmt"
	"textchunk/internal/driver"
	"textchunk/internal/observ"
	"textchunk/internal/source"
	"textchunk/internal/version"
)

const stdinName = "<stdin>"

var chunkCmd = &cobra.Command{
	Use:   "chunk [flags] [file...]",
	Short: "Segment files or stdin into typed chunks",
	Long: `Segment each input with the rule table and write the chunks in input order.
Without arguments, or with "-", the text is read from stdin.`,
	RunE: runChunk,
}

func init() {
	registerChunkFlags(chunkCmd.Flags())
}

func registerChunkFlags(f *pflag.FlagSet) {
	f.StringP("format", "f", "jsonl", "output format (jsonl|csv|xml|msgpack|pretty)")
	f.StringP("output", "o", "", "write chunks to this file instead of stdout")
	f.String("stats", "", "write statistics JSON to this file (- for stderr)")
	f.String("config", "", "rule configuration file (default: nearest textchunk.toml)")
	f.Bool("no-config", false, "ignore textchunk.toml and use the builtin rules")
	f.Int("threads", 1, "shards per input; 1 scans each input whole")
	f.Int("jobs", 0, "max inputs processed in parallel (0=auto)")
	f.Int("window", 0, "stream inputs in windows of at most this many bytes (0 reads inputs whole)")
	f.Bool("nfc", false, "normalize input to Unicode NFC")
	f.Bool("crlf", false, "normalize CRLF line endings to LF")
	f.Bool("cache", false, "reuse chunk streams from the on-disk cache")
	f.String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/textchunk)")
	f.String("ui", "auto", "progress UI on stderr (auto|on|off)")
	f.String("classify", "reclassify", "chunk typing (reclassify|scan-rule)")
	f.String("gap", "report", "spans no rule accepts in full (report|drop|fail)")
	f.String("diag-format", "pretty", "diagnostics format (pretty|json|sarif)")
	f.Bool("with-notes", false, "include diagnostic notes")
	f.Bool("fullpath", false, "emit absolute file paths in diagnostics")
}

func runChunk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	root := cmd.Root().PersistentFlags()
	quiet, _ := root.GetBool("quiet")
	showTimings, _ := root.GetBool("timings")
	maxDiagnostics, _ := root.GetInt("max-diagnostics")

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	done := timer.Track("config")
	settings, err := resolveSettings(cmd.Flags())
	done("")
	if err != nil {
		return err
	}

	opts := driver.Options{
		Table:          settings.table,
		Mode:           settings.mode,
		Gap:            settings.gap,
		Threads:        settings.threads,
		Jobs:           settings.jobs,
		MaxDiagnostics: maxDiagnostics,
		Load:           settings.load,
	}
	if settings.cache {
		if opts.Cache, err = openCache(settings.cacheDir); err != nil {
			// кэш не обязателен: продолжаем без него
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: chunk cache disabled: %v\n", err)
			}
			opts.Cache = nil
		}
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	done = timer.Track("segment")
	fileSet, results, err := segmentInputs(ctx, cmd, paths, settings, opts, quiet)
	done(fmt.Sprintf("%d inputs", len(results)))
	if err != nil {
		return err
	}

	var chunks []chunk.Chunk
	for _, r := range results {
		chunks = append(chunks, r.Chunks...)
	}

	done = timer.Track("write")
	if err := writeChunks(cmd, settings, chunks); err != nil {
		return err
	}
	if settings.stats != "" {
		if err := writeStats(cmd, settings.stats, chunks); err != nil {
			return err
		}
	}
	done(fmt.Sprintf("%d chunks", len(chunks)))

	failed, err := reportDiagnostics(cmd, settings, fileSet, results, quiet)
	if err != nil {
		return err
	}
	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if failed {
		return errSilent
	}
	return nil
}

func openCache(dir string) (*cache.Cache, error) {
	if dir != "" {
		return cache.Open(dir)
	}
	return cache.OpenDefault("textchunk")
}

// segmentInputs dispatches to whole-buffer or windowed segmentation.
func segmentInputs(ctx context.Context, cmd *cobra.Command, paths []string, s *chunkSettings, opts driver.Options, quiet bool) (*source.FileSet, []driver.Result, error) {
	if s.window > 0 {
		return streamInputs(ctx, cmd, paths, s.window, &opts)
	}
	if slices.Contains(paths, "-") {
		if len(paths) != 1 {
			return nil, nil, fmt.Errorf("stdin (-) cannot be combined with file arguments")
		}
		return segmentStdin(ctx, cmd.InOrStdin(), &opts)
	}
	if s.ui.showProgress(s.output == "", quiet, stderrFile(cmd)) {
		return segmentFilesWithUI(ctx, "chunking", paths, opts)
	}
	return driver.SegmentFiles(ctx, paths, &opts)
}

func segmentStdin(ctx context.Context, r io.Reader, opts *driver.Options) (*source.FileSet, []driver.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	fs := source.NewFileSet()
	content, flags := source.Normalize(data, opts.Load)
	id := fs.Add(stdinName, content, flags|source.FileVirtual)
	res := driver.SegmentFile(ctx, fs.Get(id), opts)
	return fs, []driver.Result{res}, nil
}

// streamInputs segments every input window by window, one input at a time.
func streamInputs(ctx context.Context, cmd *cobra.Command, paths []string, window int, opts *driver.Options) (*source.FileSet, []driver.Result, error) {
	fs := source.NewFileSet()
	results := make([]driver.Result, 0, len(paths))
	for _, path := range paths {
		var (
			r      io.Reader
			name   = path
			closer io.Closer
		)
		if path == "-" {
			r, name = cmd.InOrStdin(), stdinName
		} else {
			// #nosec G304 -- path is provided by the user
			f, err := os.Open(path)
			if err != nil {
				id := fs.Add(path, nil, source.FileUnreadable)
				bag := diag.NewBag(1)
				bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
				results = append(results, driver.Result{Path: path, FileID: id, Bag: bag, Err: err})
				continue
			}
			r, closer = f, f
		}

		// содержимое не хранится: в диагностиках будет позиция без сниппета
		id := fs.Add(name, nil, source.FileVirtual)
		res := driver.Result{Path: name, FileID: id}
		res.Bag, res.Err = driver.SegmentStream(ctx, bufio.NewReader(r), id, window, opts, func(c chunk.Chunk) error {
			res.Chunks = append(res.Chunks, c)
			return nil
		})
		if closer != nil {
			_ = closer.Close()
		}
		results = append(results, res)
	}
	return fs, results, nil
}

func writeChunks(cmd *cobra.Command, s *chunkSettings, chunks []chunk.Chunk) (err error) {
	out := cmd.OutOrStdout()
	colorTarget := stdoutFile(cmd)
	if s.output != "" {
		f, err := os.Create(s.output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output: %w", cerr)
			}
		}()
		out, colorTarget = f, f
	}
	colored, err := useColor(cmd, colorTarget)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(out)
	if err := chunkfmt.Write(bw, s.format, chunks, chunkfmt.Options{Color: colored, Width: terminalWidth(colorTarget)}); err != nil {
		return fmt.Errorf("failed to write %s output: %w", s.format, err)
	}
	return bw.Flush()
}

func writeStats(cmd *cobra.Command, path string, chunks []chunk.Chunk) error {
	st := chunk.Compute(chunks)
	if path == "-" {
		return chunkfmt.WriteStats(cmd.ErrOrStderr(), &st)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create stats file: %w", err)
	}
	if err := chunkfmt.WriteStats(f, &st); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// reportDiagnostics prints the diagnostics of every input to stderr and
// reports whether any input failed.
func reportDiagnostics(cmd *cobra.Command, s *chunkSettings, fs *source.FileSet, results []driver.Result, quiet bool) (bool, error) {
	total := 0
	for _, r := range results {
		if r.Bag != nil {
			total += r.Bag.Len()
		}
	}
	bag := diag.NewBag(total)
	failed := false
	for _, r := range results {
		if r.Err != nil || (r.Bag != nil && r.Bag.HasErrors()) {
			failed = true
		}
		if r.Bag == nil {
			continue
		}
		for _, d := range r.Bag.Items() {
			if quiet && d.Severity < diag.SevError {
				continue
			}
			bag.Add(d)
		}
	}
	bag.Sort()
	bag.Dedup()

	errOut := cmd.ErrOrStderr()
	pathMode := diagfmt.PathModeAuto
	if s.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch s.diagFormat {
	case "json":
		if err := diagfmt.JSON(errOut, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     s.withNotes,
		}); err != nil {
			return failed, err
		}
	case "sarif":
		if err := diagfmt.Sarif(errOut, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "textchunk",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}); err != nil {
			return failed, err
		}
	default:
		colored, err := useColor(cmd, stderrFile(cmd))
		if err != nil {
			return failed, err
		}
		diagfmt.Pretty(errOut, bag, fs, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: s.withNotes,
		})
	}

	// ошибки без диагностик (отмена, сбой пула) печатаем отдельно
	for _, r := range results {
		if r.Err != nil && (r.Bag == nil || !r.Bag.HasErrors()) {
			fmt.Fprintf(errOut, "error: %s: %v\n", r.Path, r.Err)
		}
	}
	return failed, nil
}
