package sharestat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/shirou/gopsutil/v3/disk"
)

// DefaultExcludes contains the administrative share names excluded by default.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludes = []string{"ADMIN$", "C$", "IPC$", "print$"}

// A Lister enumerates the host's exposed shares.
type Lister interface {
	List() ([]ShareRecord, error)
}

// VolumeLister enumerates mounted volumes as shares, one record per
// mountpoint.
type VolumeLister struct{}

// List returns one ShareRecord per mounted volume.
func (VolumeLister) List() ([]ShareRecord, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, errors.WrapIf(err, "sharestat: enumerating volumes")
	}

	records := make([]ShareRecord, 0, len(partitions))
	for _, p := range partitions {
		records = append(records, ShareRecord{
			Name: shareName(p.Mountpoint),
			Path: p.Mountpoint,
		})
	}

	return records, nil
}

// shareName derives a share name from a mountpoint: the drive letter on
// Windows ("C:\" -> "C"), the last path element elsewhere ("/mnt/data" ->
// "data"), and "root" for the filesystem root.
func shareName(mountpoint string) string {
	trimmed := strings.TrimRight(mountpoint, `\/`)
	trimmed = strings.TrimSuffix(trimmed, ":")

	if base := filepath.Base(trimmed); base != "." && base != "/" && base != "" {
		return base
	}

	return "root"
}

// ListShares returns the lister's records minus any whose name is on the
// exclude list. Matching is case-insensitive exact.
func ListShares(lister Lister, exclude []string) ([]ShareRecord, error) {
	records, err := lister.List()
	if err != nil {
		return nil, err
	}

	return filterShares(records, exclude), nil
}

func filterShares(records []ShareRecord, exclude []string) []ShareRecord {
	if len(exclude) == 0 {
		return records
	}

	denied := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		denied[strings.ToLower(name)] = struct{}{}
	}

	kept := make([]ShareRecord, 0, len(records))

	for _, rec := range records {
		if _, ok := denied[strings.ToLower(rec.Name)]; ok {
			log.WithField("share", rec.Name).Debug("share excluded by denylist")

			continue
		}

		kept = append(kept, rec)
	}

	return kept
}

// SnapshotFile returns the snapshot file name for the given host.
func SnapshotFile(hostname string) string {
	return fmt.Sprintf("shares_%s.json", hostname)
}

// WriteSnapshot marshals records and writes them to
// dir/shares_<hostname>.json, creating dir if absent. Prior content is
// truncated. Nothing is written when marshalling fails, so a failed run
// never leaves a partial snapshot.
func WriteSnapshot(dir string, records []ShareRecord) (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", errors.WrapIf(err, "sharestat: resolving hostname")
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", errors.WrapIf(err, "sharestat: encoding snapshot")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapIf(err, "sharestat: creating snapshot directory")
	}

	path := filepath.Join(dir, SnapshotFile(hostname))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.WrapIf(err, "sharestat: writing snapshot")
	}

	log.WithField("path", path).WithField("shares", len(records)).Info("snapshot written")

	return path, nil
}

// ReadSnapshot parses a snapshot file back into records.
func ReadSnapshot(path string) ([]ShareRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIf(err, "sharestat: reading snapshot")
	}

	var records []ShareRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.WrapIf(err, "sharestat: parsing snapshot")
	}

	return records, nil
}

// CreateSnapshot enumerates shares through lister, drops excluded names and
// writes the snapshot under dir. It returns the written file's path.
func CreateSnapshot(lister Lister, dir string, exclude []string) (string, error) {
	records, err := ListShares(lister, exclude)
	if err != nil {
		return "", err
	}

	return WriteSnapshot(dir, records)
}
