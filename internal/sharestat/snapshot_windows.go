//go:build windows

package sharestat

import (
	"emperror.dev/errors"
	"github.com/yusufpapurcu/wmi"
)

// Win32_Share mirrors the fields queried from the WMI share class. The WMI
// layer derives the class name from the struct name, so it keeps the
// underscore.
//
//nolint:revive,stylecheck // WMI class name
type Win32_Share struct {
	Name string
	Path string
}

// SMBLister queries the host's share table through WMI.
type SMBLister struct{}

// List returns one ShareRecord per share that exposes a filesystem path.
// Non-disk shares (IPC$ and friends report an empty path) are dropped.
func (SMBLister) List() ([]ShareRecord, error) {
	var shares []Win32_Share

	query := wmi.CreateQuery(&shares, "")
	if err := wmi.Query(query, &shares); err != nil {
		return nil, errors.WrapIf(err, "sharestat: querying share table")
	}

	records := make([]ShareRecord, 0, len(shares))

	for _, share := range shares {
		if share.Path == "" {
			continue
		}

		records = append(records, ShareRecord{Name: share.Name, Path: share.Path})
	}

	return records, nil
}

// HostLister returns the share table lister for this platform.
func HostLister() Lister { return SMBLister{} }
