package sharestat

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"
)

// csvHeader is the fixed column layout of the share report.
//
//nolint:gochecknoglobals // Config constant
var csvHeader = []string{"Name", "Path", "Size", "Files", "Folders"}

// FormatGB renders a byte count as binary gigabytes with two decimals,
// e.g. "12.34GB".
func FormatGB(bytes int64) string {
	return fmt.Sprintf("%.2fGB", float64(bytes)/(1<<30))
}

// WriteCSV writes results to path as CSV, one row per result in insertion
// order, overwriting any prior file of the same name.
func WriteCSV(path string, results []ShareResult) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIf(err, "sharestat: creating report file")
	}

	w := csv.NewWriter(f)

	if err := w.Write(csvHeader); err != nil {
		f.Close()

		return errors.WrapIf(err, "sharestat: writing report header")
	}

	for _, res := range results {
		row := []string{
			res.Name,
			res.Path,
			FormatGB(res.SizeBytes),
			strconv.FormatInt(res.Files, 10),
			strconv.FormatInt(res.Folders, 10),
		}

		if err := w.Write(row); err != nil {
			f.Close()

			return errors.WrapIf(err, "sharestat: writing report row")
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()

		return errors.WrapIf(err, "sharestat: flushing report")
	}

	return errors.WrapIf(f.Close(), "sharestat: closing report file")
}

// AppendErrorLog appends errs as a JSON array to path, creating the file if
// absent. Existing content is preserved; the timestamped file name already
// makes each run's log unique, so nothing is ever clobbered.
func AppendErrorLog(path string, errs []ShareError) error {
	data, err := json.MarshalIndent(errs, "", "  ")
	if err != nil {
		return errors.WrapIf(err, "sharestat: encoding error log")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapIf(err, "sharestat: opening error log")
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()

		return errors.WrapIf(err, "sharestat: writing error log")
	}

	return errors.WrapIf(f.Close(), "sharestat: closing error log")
}

// WriteReport writes the CSV for results and appends errs to a timestamped
// error log under outputDir, creating the directory if needed. Empty inputs
// write nothing, which is not an error. The returned paths are empty for
// whichever file was not written.
func WriteReport(outputDir, baseName string, ts time.Time, results []ShareResult, errs []ShareError) (string, string, error) {
	if len(results) == 0 && len(errs) == 0 {
		return "", "", nil
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return "", "", errors.WrapIf(err, "sharestat: creating output directory")
		}
	}

	var reportPath, errLogPath string

	if len(results) > 0 {
		reportPath = filepath.Join(outputDir, baseName+".csv")
		if err := WriteCSV(reportPath, results); err != nil {
			return "", "", err
		}

		log.WithField("path", reportPath).WithField("shares", len(results)).Info("report written")
	}

	if len(errs) > 0 {
		name := fmt.Sprintf("%s_errors_%s.json", baseName, ts.Format(TimestampLayout))

		errLogPath = filepath.Join(outputDir, name)
		if err := AppendErrorLog(errLogPath, errs); err != nil {
			// The CSV may already be on disk; keep its path so the caller
			// can still report the partial output.
			return reportPath, "", err
		}

		log.WithField("path", errLogPath).WithField("failures", len(errs)).Warn("error log written")
	}

	return reportPath, errLogPath, nil
}
