package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/sharestat/internal/sharestat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintSummary outputs a human-readable run summary.
//
//nolint:forbidigo // This function prints output to the console.
func PrintSummary(summary *sharestat.Summary, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	if len(summary.Results) > 0 {
		fmt.Fprintln(w, "\nShares:\t\t\t\t")
		fmt.Fprintln(w, "  Name\tPath\tSize\tFiles\tFolders")

		for _, res := range summary.Results {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%d\t%d\n",
				res.Name, res.Path, sharestat.FormatGB(res.SizeBytes), res.Files, res.Folders)
		}
	}

	if len(summary.Errors) > 0 {
		fmt.Fprintln(w, "\nFailures:\t\t")

		for _, shareErr := range summary.Errors {
			fmt.Fprintf(w, "  %s\t%s\n", shareErr.Name, shareErr.Error)
		}
	}

	var totalBytes, files, folders int64

	for _, res := range summary.Results {
		totalBytes += res.SizeBytes
		files += res.Files
		folders += res.Folders
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Shares walked:\t%d\n", len(summary.Results))
	fmt.Fprintf(w, "Shares failed:\t%d\n", len(summary.Errors))
	fmt.Fprintf(w, "Total files:\t%d\n", files)
	fmt.Fprintf(w, "Total folders:\t%d\n", folders)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(totalBytes)), totalBytes) //nolint:gosec // Sizes are never negative

	fmt.Fprintf(w, "\nElapsed:\t%v\n", summary.Elapsed)

	if summary.ReportPath != "" {
		fmt.Fprintf(w, "Report:\t%s\n", summary.ReportPath)
	}

	if summary.ErrorLogPath != "" {
		fmt.Fprintf(w, "Error log:\t%s\n", summary.ErrorLogPath)
	}

	return w.Flush()
}
