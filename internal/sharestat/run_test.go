package sharestat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeShares creates n share directories, each holding one file of
// (i+1)*100 bytes, and writes a snapshot listing them.
func makeShares(t *testing.T, n int) (string, []ShareRecord) {
	t.Helper()

	base := t.TempDir()
	records := make([]ShareRecord, 0, n)

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("share%d", i)
		dir := filepath.Join(base, name)
		require.NoError(t, os.Mkdir(dir, 0o755))
		writeFile(t, filepath.Join(dir, "payload.bin"), (i+1)*100)

		records = append(records, ShareRecord{Name: name, Path: dir})
	}

	snapshot, err := WriteSnapshot(t.TempDir(), records)
	require.NoError(t, err)

	return snapshot, records
}

func resultNames(results []ShareResult) []string {
	names := make([]string, 0, len(results))
	for _, res := range results {
		names = append(names, res.Name)
	}

	return names
}

func TestGenerateReportAll(t *testing.T) {
	snapshot, _ := makeShares(t, 3)
	outDir := t.TempDir()

	var percents []int

	summary, err := GenerateReport(context.Background(), Options{
		SnapshotPath: snapshot,
		OutputDir:    outDir,
		BaseName:     "all",
	}, func(_, _, percent int) {
		percents = append(percents, percent)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"share0", "share1", "share2"}, resultNames(summary.Results))
	assert.Empty(t, summary.Errors)
	assert.Equal(t, []int{33, 67, 100}, percents)
	assert.Equal(t, filepath.Join(outDir, "all.csv"), summary.ReportPath)
	assert.FileExists(t, summary.ReportPath)
	assert.Empty(t, summary.ErrorLogPath)
}

func TestGenerateReportFirstSubset(t *testing.T) {
	snapshot, _ := makeShares(t, 10)

	summary, err := GenerateReport(context.Background(), Options{
		SnapshotPath: snapshot,
		OutputDir:    t.TempDir(),
		First:        3,
		Pause:        time.Millisecond,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"share0", "share1", "share2"}, resultNames(summary.Results))
}

func TestGenerateReportFirstExceedsList(t *testing.T) {
	snapshot, _ := makeShares(t, 10)

	var percents []int

	summary, err := GenerateReport(context.Background(), Options{
		SnapshotPath: snapshot,
		OutputDir:    t.TempDir(),
		First:        20,
		Pause:        time.Millisecond,
	}, func(_, _, percent int) {
		percents = append(percents, percent)
	})
	require.NoError(t, err)

	assert.Len(t, summary.Results, 10)
	// The denominator is the requested count, not the list length.
	assert.Equal(t, 50, percents[len(percents)-1])
}

func TestGenerateReportIsolatesFailures(t *testing.T) {
	snapshot, records := makeShares(t, 3)
	require.NoError(t, os.RemoveAll(records[1].Path))

	outDir := t.TempDir()

	summary, err := GenerateReport(context.Background(), Options{
		SnapshotPath: snapshot,
		OutputDir:    outDir,
		BaseName:     "partial",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"share0", "share2"}, resultNames(summary.Results))

	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "share1", summary.Errors[0].Name)
	assert.NotEmpty(t, summary.Errors[0].Error)
	assert.False(t, summary.Errors[0].Timestamp.IsZero())

	data, err := os.ReadFile(summary.ReportPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "share1")

	assert.FileExists(t, summary.ErrorLogPath)
}

func TestGenerateReportAppliesExcludes(t *testing.T) {
	snapshot, _ := makeShares(t, 3)

	summary, err := GenerateReport(context.Background(), Options{
		SnapshotPath: snapshot,
		OutputDir:    t.TempDir(),
		Excludes:     []string{"SHARE1"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"share0", "share2"}, resultNames(summary.Results))
}

func TestGenerateReportSkipsLongPaths(t *testing.T) {
	longPath := filepath.Join(t.TempDir(), strings.Repeat("x", 300))

	snapshot, err := WriteSnapshot(t.TempDir(), []ShareRecord{
		{Name: "toolong", Path: longPath},
	})
	require.NoError(t, err)

	summary, err := GenerateReport(context.Background(), Options{
		SnapshotPath:  snapshot,
		OutputDir:     t.TempDir(),
		SkipLongPaths: true,
	}, nil)
	require.NoError(t, err)

	assert.Empty(t, summary.Results)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0].Error, "long-path limit")
}

func TestGenerateReportWalksLongPathsByDefault(t *testing.T) {
	// Build an existing directory whose path meets the limit.
	dir := t.TempDir()
	for len(dir) < DefaultLongPathLimit {
		dir = filepath.Join(dir, strings.Repeat("d", 40))
		require.NoError(t, os.Mkdir(dir, 0o755))
	}

	writeFile(t, filepath.Join(dir, "payload.bin"), 100)

	snapshot, err := WriteSnapshot(t.TempDir(), []ShareRecord{
		{Name: "deep", Path: dir},
	})
	require.NoError(t, err)

	summary, err := GenerateReport(context.Background(), Options{
		SnapshotPath: snapshot,
		OutputDir:    t.TempDir(),
	}, nil)
	require.NoError(t, err)

	// The warning is informational; traversal still proceeds.
	require.Len(t, summary.Results, 1)
	assert.Equal(t, int64(100), summary.Results[0].SizeBytes)
	assert.Empty(t, summary.Errors)
}

func TestGenerateReportMissingSnapshot(t *testing.T) {
	_, err := GenerateReport(context.Background(), Options{
		SnapshotPath: filepath.Join(t.TempDir(), "absent.json"),
		OutputDir:    t.TempDir(),
	}, nil)
	assert.Error(t, err)
}

func TestGenerateReportPolicyDecidesUnreadableShareFate(t *testing.T) {
	root := lockedSubtree(t)

	snapshot, err := WriteSnapshot(t.TempDir(), []ShareRecord{
		{Name: "partial", Path: root},
	})
	require.NoError(t, err)

	skip, err := GenerateReport(context.Background(), Options{
		SnapshotPath: snapshot,
		OutputDir:    t.TempDir(),
		Policy:       PolicySkipUnreadable,
	}, nil)
	require.NoError(t, err)

	require.Len(t, skip.Results, 1)
	assert.Empty(t, skip.Errors)
	assert.Equal(t, int64(100), skip.Results[0].SizeBytes)

	strict, err := GenerateReport(context.Background(), Options{
		SnapshotPath: snapshot,
		OutputDir:    t.TempDir(),
		Policy:       PolicyAbortOnUnreadable,
	}, nil)
	require.NoError(t, err)

	assert.Empty(t, strict.Results)
	require.Len(t, strict.Errors, 1)
	assert.Equal(t, "partial", strict.Errors[0].Name)
	assert.NotEmpty(t, strict.Errors[0].Error)
}

func TestGenerateReportPausesAfterSkippedShare(t *testing.T) {
	longPath := filepath.Join(t.TempDir(), strings.Repeat("x", 300))

	real := filepath.Join(t.TempDir(), "real")
	require.NoError(t, os.Mkdir(real, 0o755))
	writeFile(t, filepath.Join(real, "payload.bin"), 100)

	snapshot, err := WriteSnapshot(t.TempDir(), []ShareRecord{
		{Name: "toolong", Path: longPath},
		{Name: "real", Path: real},
	})
	require.NoError(t, err)

	const wait = 50 * time.Millisecond

	start := time.Now()

	summary, err := GenerateReport(context.Background(), Options{
		SnapshotPath:  snapshot,
		OutputDir:     t.TempDir(),
		First:         2,
		Pause:         wait,
		SkipLongPaths: true,
	}, nil)
	require.NoError(t, err)

	// The skipped share still counts as a processed share, so the pause
	// before the next one must happen.
	assert.GreaterOrEqual(t, time.Since(start), wait)
	assert.Len(t, summary.Errors, 1)
	assert.Len(t, summary.Results, 1)
}

func TestGenerateReportStrictPolicy(t *testing.T) {
	snapshot, _ := makeShares(t, 2)

	summary, err := GenerateReport(context.Background(), Options{
		SnapshotPath: snapshot,
		OutputDir:    t.TempDir(),
		Policy:       PolicyAbortOnUnreadable,
	}, nil)
	require.NoError(t, err)

	// Fully readable trees behave identically under either policy.
	assert.Len(t, summary.Results, 2)
	assert.Empty(t, summary.Errors)
}
