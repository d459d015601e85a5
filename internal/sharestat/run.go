package sharestat

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/idelchi/sharestat/internal/memory"
)

// GenerateReport reads the snapshot at opts.SnapshotPath, walks each share
// sequentially and writes the CSV report plus error log under
// opts.OutputDir.
//
// With opts.First > 0 only the first N shares of the list are walked (or
// fewer if the list is shorter), with a pause between shares. A single
// share's failure never aborts the run; it is recorded as a ShareError and
// processing continues. Progress is reported to progress, if non-nil,
// after each share; in first-N mode the denominator is the requested N,
// not the number of shares actually available.
func GenerateReport(ctx context.Context, opts Options, progress ProgressFunc) (*Summary, error) {
	if opts.BaseName == "" {
		opts.BaseName = DefaultBaseName
	}

	if opts.Pause <= 0 {
		opts.Pause = DefaultPause
	}

	records, err := ReadSnapshot(opts.SnapshotPath)
	if err != nil {
		return nil, err
	}

	records = filterShares(records, opts.Excludes)

	total := len(records)
	if opts.First > 0 {
		total = opts.First

		if len(records) > opts.First {
			records = records[:opts.First]
		}
	}

	log.WithField("shares", len(records)).Info("starting share walk")

	start := time.Now()
	summary := &Summary{}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logMemory(rec)

		skipped := false

		if LongPath(rec.Path, opts.LongPathLimit) {
			log.WithField("share", rec.Name).WithField("length", len(rec.Path)).
				Warn("share path meets the long-path limit and may be inaccessible")

			if opts.SkipLongPaths {
				summary.Errors = append(summary.Errors, ShareError{
					Name:      rec.Name,
					Path:      rec.Path,
					Error:     fmt.Sprintf("path length %d meets the long-path limit, traversal skipped", len(rec.Path)),
					Timestamp: time.Now().UTC(),
				})

				skipped = true
			}
		}

		if !skipped {
			result, walkErr := Walk(ctx, rec, opts.Policy)
			if walkErr != nil {
				if ctx.Err() != nil {
					return nil, walkErr
				}

				log.WithError(walkErr).WithField("share", rec.Name).Error("share traversal failed")

				summary.Errors = append(summary.Errors, ShareError{
					Name:      rec.Name,
					Path:      rec.Path,
					Error:     walkErr.Error(),
					Timestamp: time.Now().UTC(),
				})
			} else {
				log.WithFields(log.Fields{
					"share":   rec.Name,
					"files":   result.Files,
					"folders": result.Folders,
					"size":    humanize.IBytes(uint64(result.SizeBytes)), //nolint:gosec // Sizes are never negative
				}).Info("share walked")

				summary.Results = append(summary.Results, result)
			}
		}

		reportProgress(progress, i+1, total)

		if opts.First > 0 && i < len(records)-1 {
			pause(ctx, opts.Pause)
		}
	}

	summary.Elapsed = time.Since(start)

	reportPath, errLogPath, err := WriteReport(opts.OutputDir, opts.BaseName, start, summary.Results, summary.Errors)
	if err != nil {
		return nil, err
	}

	summary.ReportPath = reportPath
	summary.ErrorLogPath = errLogPath

	return summary, nil
}

// reportProgress computes percent-complete and invokes the hook.
func reportProgress(progress ProgressFunc, completed, total int) {
	if progress == nil || total <= 0 {
		return
	}

	percent := int(math.Round(float64(completed) / float64(total) * 100))

	progress(completed, total, percent)
}

// logMemory samples the memory gauge for diagnostics. The reading never
// gates or throttles traversal.
func logMemory(rec ShareRecord) {
	sample, err := memory.Take()
	if err != nil {
		log.WithError(err).Warn("memory sample failed")

		return
	}

	entry := log.WithFields(log.Fields{
		"share":    rec.Name,
		"status":   string(sample.Status),
		"pct_free": sample.PctFree,
		"free_gb":  sample.FreeGB,
	})

	if sample.Status == memory.StatusCritical {
		entry.Warn("memory critically low")

		return
	}

	entry.Debug("memory sampled")
}

// pause sleeps for d or until ctx is done, whichever comes first.
func pause(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
