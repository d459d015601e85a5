package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/multi"
	"github.com/apex/log/handlers/text"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/sharestat/internal/sharestat"
)

func logic(ctx context.Context, opts sharestat.Options, debug bool) error {
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	// Tee the run's log output into a per-run transcript file.
	transcript, err := openTranscript(opts.OutputDir, opts.BaseName)
	if err != nil {
		return err
	}
	defer transcript.Close()

	log.SetHandler(multi.New(
		clihandler.New(os.Stderr),
		text.New(transcript),
	))

	enableProgress := !debug && isatty.IsTerminal(os.Stderr.Fd())

	var progress sharestat.ProgressFunc

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")

		progress = func(completed, total, percent int) {
			msg := fmt.Sprintf("Walking shares… %d/%d (%d%%)", completed, total, percent)
			fmt.Fprintf(os.Stderr, "\r\033[2K%s\r", msg)
		}
	} else {
		progress = func(completed, total, percent int) {
			log.WithField("percent", percent).Infof("processed %d of %d shares", completed, total)
		}
	}

	summary, err := sharestat.GenerateReport(ctx, opts, progress)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	return PrintSummary(summary, os.Stdout)
}

// openTranscript creates <dir>/<base>_transcript_<timestamp>.log for the
// run, creating dir if absent.
func openTranscript(dir, base string) (*os.File, error) {
	if base == "" {
		base = sharestat.DefaultBaseName
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.WrapIf(err, "creating output directory")
		}
	}

	name := fmt.Sprintf("%s_transcript_%s.log", base, time.Now().Format(sharestat.TimestampLayout))

	f, err := os.Create(filepath.Join(dir, name))

	return f, errors.WrapIf(err, "creating transcript file")
}
