package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"textchunk/internal/driver"
	"textchunk/internal/source"
	"textchunk/internal/ui"
)

type segmentOutcome struct {
	fileSet *source.FileSet
	results []driver.Result
	err     error
}

// segmentFilesWithUI runs driver.SegmentFiles while a progress model renders
// its events on stderr.
func segmentFilesWithUI(ctx context.Context, title string, paths []string, opts driver.Options) (*source.FileSet, []driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan segmentOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.SegmentFiles(ctx, paths, &opts)
		outcomeCh <- segmentOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал: дочитываем, чтобы драйвер не встал
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
