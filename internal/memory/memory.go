// Package memory samples host physical memory and classifies the remaining
// headroom into a coarse health status.
package memory

import (
	"math"

	"emperror.dev/errors"
	"github.com/shirou/gopsutil/v3/mem"
)

// Status describes how much free physical memory the host has left.
type Status string

// Memory health states, from most to least headroom.
const (
	StatusOK       Status = "OK"
	StatusWarning  Status = "Warning"
	StatusCritical Status = "Critical"
)

// Classification thresholds, in percent free.
const (
	okThreshold      = 45
	warningThreshold = 15
)

const bytesPerGB = 1 << 30

// Sample is a point-in-time reading of physical memory. Samples are
// ephemeral and never persisted.
type Sample struct {
	// Status is the classified health state.
	Status Status
	// PctFree is the percentage of physical memory available, rounded to
	// two decimals.
	PctFree float64
	// FreeGB is the available physical memory in binary gigabytes.
	FreeGB float64
	// TotalGB is the total physical memory in whole binary gigabytes.
	TotalGB uint64
}

// Take reads total and available physical memory from the host and returns
// a classified sample. A read failure is returned as an error, never
// silently defaulted.
func Take() (Sample, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Sample{}, errors.WrapIf(err, "memory: reading virtual memory")
	}

	if vm.Total == 0 {
		return Sample{}, errors.New("memory: total physical memory reported as zero")
	}

	pctFree := round2(float64(vm.Available) / float64(vm.Total) * 100)

	return Sample{
		Status:  Classify(pctFree),
		PctFree: pctFree,
		FreeGB:  round2(float64(vm.Available) / bytesPerGB),
		TotalGB: vm.Total / bytesPerGB,
	}, nil
}

// Classify maps a percent-free reading to a Status.
func Classify(pctFree float64) Status {
	switch {
	case pctFree >= okThreshold:
		return StatusOK
	case pctFree >= warningThreshold:
		return StatusWarning
	default:
		return StatusCritical
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
