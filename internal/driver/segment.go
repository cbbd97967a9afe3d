package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"textchunk/internal/cache"
	"textchunk/internal/chunk"
	"textchunk/internal/diag"
	"textchunk/internal/grammar"
	"textchunk/internal/scanner"
	"textchunk/internal/source"
	"textchunk/internal/trace"
)

// ErrNoTable is returned when Options carry no rule table.
var ErrNoTable = errors.New("driver: no rule table")

// Options configures a segmentation run.
type Options struct {
	Table *grammar.Table
	Mode  scanner.ClassifyMode
	Gap   scanner.GapPolicy
	// Threads is the number of shards per unit; values below 2 scan the
	// unit as a whole.
	Threads int
	// Jobs bounds how many files are processed at once.
	Jobs           int
	MaxDiagnostics int
	Load           source.LoadOptions
	Cache          *cache.Cache
	Progress       ProgressSink
}

func (o *Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

// signature identifies the options that change the chunk stream.
func (o *Options) signature() string {
	return o.Mode.String() + "/" + o.Gap.String() + "/" + strconv.Itoa(max(o.Threads, 1))
}

// Result is the segmentation of one unit.
type Result struct {
	Path   string
	FileID source.FileID
	Chunks []chunk.Chunk
	Bag    *diag.Bag
	Cached bool
	// Err is set when the unit was aborted (GapFail); chunks scanned before
	// the failure are kept.
	Err error
}

// SegmentFile segments one loaded file, consulting the cache first.
func SegmentFile(ctx context.Context, f *source.File, opts *Options) Result {
	return segmentFile(ctx, f.Path, f, opts)
}

// segmentFile reports progress and results under unit, the path as the
// caller spelled it.
func segmentFile(ctx context.Context, unit string, f *source.File, opts *Options) Result {
	res := Result{Path: unit, FileID: f.ID, Bag: diag.NewBag(opts.maxDiagnostics())}
	if opts.Table == nil {
		res.Err = ErrNoTable
		return res
	}

	ctx, span := trace.Start(ctx, trace.ScopeUnit, "unit:"+unit)
	defer func() {
		span.Set("chunks", strconv.Itoa(len(res.Chunks))).
			Set("cached", strconv.FormatBool(res.Cached)).
			End(errDetail(res.Err))
	}()

	key := cache.Key(f.Hash, opts.Table.Fingerprint(), opts.signature())
	if payload, ok, err := opts.Cache.Get(key); err != nil {
		res.Bag.Add(diag.New(diag.SevInfo, diag.IOCacheError, source.Span{File: f.ID}, err.Error()))
	} else if ok {
		res.Chunks = rebase(payload.Chunks, f.ID)
		for _, d := range payload.Diagnostics {
			d.Primary.File = f.ID
			res.Bag.Add(d)
		}
		res.Cached = true
		emit(opts.Progress, Event{Unit: unit, Shard: -1, Stage: StageScan, Status: StatusCached, Chunks: len(res.Chunks)})
		return res
	}

	started := time.Now()
	emit(opts.Progress, Event{Unit: unit, Shard: -1, Stage: StageScan, Status: StatusWorking})
	res.Chunks, res.Err = segmentUnit(ctx, opts, unit, f.ID, string(f.Content), 0, res.Bag)
	status := StatusDone
	if res.Err != nil {
		status = StatusError
	}
	emit(opts.Progress, Event{
		Unit: unit, Shard: -1, Stage: StageScan, Status: status,
		Chunks: len(res.Chunks), Err: res.Err, Elapsed: time.Since(started),
	})
	traceDiagnostics(ctx, res.Bag)

	if res.Err == nil {
		err := opts.Cache.Put(key, &cache.Payload{
			Path:        unit,
			Chunks:      res.Chunks,
			Diagnostics: res.Bag.Items(),
		})
		if err != nil {
			res.Bag.Add(diag.New(diag.SevInfo, diag.IOCacheError, source.Span{File: f.ID}, err.Error()))
		}
	}
	return res
}

// segmentUnit scans text, sharded when opts.Threads > 1. base is the byte
// offset of text inside the file.
func segmentUnit(ctx context.Context, opts *Options, unit string, file source.FileID, text string, base int, bag *diag.Bag) ([]chunk.Chunk, error) {
	if opts.Threads <= 1 {
		return scanner.Segment(opts.Table, text, &scanner.Options{
			Mode:     opts.Mode,
			Gap:      opts.Gap,
			Reporter: diag.BagReporter{Bag: bag},
			File:     file,
			Base:     base,
		})
	}
	return segmentShards(ctx, opts, unit, file, text, base, bag)
}

type shardResult struct {
	chunks []chunk.Chunk
	bag    *diag.Bag
	err    error
}

// segmentShards scans the shards of text on a bounded worker pool and
// concatenates their chunks in shard order. A shard that has not started when
// the context is cancelled is skipped; a running shard is never interrupted.
func segmentShards(ctx context.Context, opts *Options, unit string, file source.FileID, text string, base int, bag *diag.Bag) ([]chunk.Chunk, error) {
	shards := SplitShards(text, opts.Threads)
	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]shardResult, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(shards))

	for _, sh := range shards {
		emit(opts.Progress, Event{Unit: unit, Shard: sh.Index, Shards: len(shards), Stage: StageScan, Status: StatusQueued})
	}

	for _, sh := range shards {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			_, span := trace.Start(gctx, trace.ScopeShard, "shard#"+strconv.Itoa(sh.Index))
			started := time.Now()
			emit(opts.Progress, Event{Unit: unit, Shard: sh.Index, Shards: len(shards), Stage: StageScan, Status: StatusWorking})

			local := diag.NewBag(opts.maxDiagnostics())
			chunks, err := scanner.Segment(opts.Table, sh.Text, &scanner.Options{
				Mode:     opts.Mode,
				Gap:      opts.Gap,
				Reporter: diag.BagReporter{Bag: local},
				File:     file,
				Base:     base + sh.Start,
			})
			results[sh.Index] = shardResult{chunks: chunks, bag: local, err: err}

			status := StatusDone
			if err != nil {
				status = StatusError
			}
			emit(opts.Progress, Event{
				Unit: unit, Shard: sh.Index, Shards: len(shards), Stage: StageScan, Status: status,
				Chunks: len(chunks), Err: err, Elapsed: time.Since(started),
			})
			span.Set("bytes", strconv.Itoa(len(sh.Text))).
				Set("chunks", strconv.Itoa(len(chunks))).
				End(errDetail(err))
			return err
		})
	}

	waitErr := g.Wait()

	var out []chunk.Chunk
	for i := range results {
		r := &results[i]
		out = append(out, r.chunks...)
		bag.Merge(r.bag)
	}
	if waitErr != nil {
		return out, fmt.Errorf("%s: %w", unit, waitErr)
	}
	return out, nil
}

func rebase(chunks []chunk.Chunk, file source.FileID) []chunk.Chunk {
	out := make([]chunk.Chunk, len(chunks))
	for i, c := range chunks {
		c.Span.File = file
		out[i] = c
	}
	return out
}

func traceDiagnostics(ctx context.Context, bag *diag.Bag) {
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			trace.Error(ctx, trace.ScopeChunk, d.Code.ID(), d.Message)
			continue
		}
		trace.Point(ctx, trace.ScopeChunk, d.Code.ID(), d.Message)
	}
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// SegmentText segments an in-memory text as a single unit. Nothing is cached.
func SegmentText(ctx context.Context, name, text string, opts *Options) Result {
	res := Result{Path: name, Bag: diag.NewBag(opts.maxDiagnostics())}
	if opts.Table == nil {
		res.Err = ErrNoTable
		return res
	}
	res.Chunks, res.Err = segmentUnit(ctx, opts, name, 0, text, 0, res.Bag)
	return res
}
