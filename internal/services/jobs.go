package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/TeoZler/epub-series-metadata-editor/internal/library"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// Jobs builds one job per book. An empty name means each book takes the
// name of its folder; index, when set, is written to every book.
func Jobs(paths []string, name string, index *epubseries.Index) []Job {
	jobs := make([]Job, 0, len(paths))
	for _, p := range paths {
		series := name
		if series == "" {
			series = library.SeriesName(p)
		}
		jobs = append(jobs, Job{
			Path:   p,
			Series: epubseries.Series{Name: series, Index: copyIndex(index)},
		})
	}
	return jobs
}

func copyIndex(index *epubseries.Index) *epubseries.Index {
	if index == nil {
		return nil
	}
	v := *index
	return &v
}

// OrderJobs groups books by folder and lets reorderer number each group.
// Every book gets its position in its group as index. An empty name means
// each group takes its folder name.
//
// A group the operator declines to order (ErrApprovalDenied) is left out
// and logged; other reorderer errors stop and are returned.
func OrderJobs(ctx context.Context, paths []string, name string, reorderer epubseries.Reorderer, logger epubseries.Logger) ([]Job, error) {
	var jobs []Job
	for _, g := range library.GroupByFolder(paths) {
		series := name
		if series == "" {
			series = g.Series
		}

		ordered, err := reorderer.Reorder(ctx, series, g.BookList())
		if errors.Is(err, epubseries.ErrApprovalDenied) {
			logger.Info("Skipped folder %s: ordering cancelled", g.Dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to order %s: %w", g.Dir, err)
		}

		for _, book := range ordered {
			jobs = append(jobs, Job{
				Path:   book.Path,
				Series: epubseries.NewSeries(series, book.Index),
			})
		}
	}
	return jobs, nil
}
