// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import (
	"fmt"
	"time"
)

// Statistics tracks receiver outcomes and rates
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames        uint64
	AcceptedFrames     uint64
	SequenceMismatches uint64
	ChecksumMismatches uint64
	DecodeErrors       uint64
	FaultIndications   uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records one receiver event
func (s *Statistics) Update(ev FrameEvent) {
	s.TotalFrames++
	s.LastUpdateTime = time.Now()

	if ev.Err != nil {
		s.DecodeErrors++
		return
	}

	switch ev.Result.Outcome {
	case OutcomeAccepted:
		s.AcceptedFrames++
	case OutcomeSequenceMismatch:
		s.SequenceMismatches++
	case OutcomeChecksumMismatch:
		s.ChecksumMismatches++
	}

	if ev.Indicator == IndicatorFault {
		s.FaultIndications++
	}
}

// Errors returns the number of frames that were not accepted
func (s *Statistics) Errors() uint64 {
	return s.SequenceMismatches + s.ChecksumMismatches + s.DecodeErrors
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		s.ErrorRate = float64(s.Errors()) / elapsed
	}
}

// percent returns n as a percentage of the total frame count
func (s *Statistics) percent(n uint64) float64 {
	if s.TotalFrames == 0 {
		return 0
	}
	return float64(n) * 100.0 / float64(s.TotalFrames)
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Accepted:        %8d (%.1f%%)\n", s.AcceptedFrames, s.percent(s.AcceptedFrames))

	if s.SequenceMismatches > 0 {
		result += fmt.Sprintf("Seq Mismatch:    %8d (%.1f%%)\n", s.SequenceMismatches, s.percent(s.SequenceMismatches))
	}
	if s.ChecksumMismatches > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d (%.1f%%)\n", s.ChecksumMismatches, s.percent(s.ChecksumMismatches))
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d (%.1f%%)\n", s.DecodeErrors, s.percent(s.DecodeErrors))
	}
	result += fmt.Sprintf("FAULT shown:     %8d\n", s.FaultIndications)

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
