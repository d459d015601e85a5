// Package sharestat enumerates host file shares and computes per-share
// tree statistics.
//
// A snapshot pass records {Name, Path} pairs for the host's shares as a
// JSON file; a report pass walks each share's tree with fastwalk,
// aggregating file count, folder count and total byte size, exporting the
// results to CSV and any per-share failures to a timestamped JSON error
// log. Shares are processed one at a time, in list order.
package sharestat
