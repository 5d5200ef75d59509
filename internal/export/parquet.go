// Package export writes the denormalized visit feed consumed by the
// analytics and model-training jobs.
package export

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/healthstats/visitload/internal/model"
)

// flushEvery bounds the rows buffered between parquet writes.
const flushEvery = 1000

// VisitSource streams denormalized visits to a callback.
type VisitSource interface {
	ExportVisits(ctx context.Context, since *time.Time, fn func(model.VisitExportRow) error) (int64, error)
}

// WriteVisits streams visits from the warehouse into a Parquet file at
// path. A nil since exports everything. Returns the row count written.
func WriteVisits(ctx context.Context, src VisitSource, path string, since *time.Time, log zerolog.Logger) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}

	writer := parquet.NewGenericWriter[model.VisitExportRow](f)

	buf := make([]model.VisitExportRow, 0, flushEvery)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if _, err := writer.Write(buf); err != nil {
			return fmt.Errorf("write parquet rows: %w", err)
		}
		buf = buf[:0]
		return nil
	}

	n, err := src.ExportVisits(ctx, since, func(row model.VisitExportRow) error {
		buf = append(buf, row)
		if len(buf) == flushEvery {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err == nil {
		err = writer.Close()
	}
	if err != nil {
		f.Close()
		_ = os.Remove(path)
		return 0, err
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close export file: %w", err)
	}

	log.Info().Int64("rows", n).Str("path", path).Msg("visit export written")
	return n, nil
}
