package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"textchunk/internal/diag"
	"textchunk/internal/source"
	"textchunk/internal/trace"
)

// SegmentFiles loads and segments every path on a bounded worker pool.
// Results keep the order of paths. A file that cannot be read gets a
// placeholder entry in the FileSet and an IOLoadFileError diagnostic; the
// other files are still processed.
func SegmentFiles(ctx context.Context, paths []string, opts *Options) (*source.FileSet, []Result, error) {
	fileSet := source.NewFileSet()
	if len(paths) == 0 {
		return fileSet, nil, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeRun, "segment-files")
	defer span.End("")

	// Загружаем последовательно: FileID должны совпадать с порядком путей
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make(map[int]error)
	for i, path := range paths {
		emit(opts.Progress, Event{Unit: path, Shard: -1, Stage: StageLoad, Status: StatusWorking})
		id, err := fileSet.Load(path, opts.Load)
		if err != nil {
			loadErrors[i] = err
			id = fileSet.Add(path, nil, source.FileUnreadable)
			emit(opts.Progress, Event{Unit: path, Shard: -1, Stage: StageLoad, Status: StatusError, Err: err})
		} else {
			emit(opts.Progress, Event{Unit: path, Shard: -1, Stage: StageLoad, Status: StatusDone})
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.New(diag.SevError, diag.IOLoadFileError,
					source.Span{File: fileIDs[i]}, "failed to load file: "+loadErr.Error()))
				trace.Error(gctx, trace.ScopeUnit, path, loadErr.Error())
				results[i] = Result{Path: path, FileID: fileIDs[i], Bag: bag, Err: loadErr}
				return nil
			}

			// GapFail прерывает только свой файл
			results[i] = segmentFile(gctx, path, fileSet.Get(fileIDs[i]), opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
