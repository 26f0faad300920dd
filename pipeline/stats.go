// File: pipeline/stats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pipeline

import "github.com/momentics/framepipe/pool"

// ProducerStats counts publish outcomes. Undelivered frames reached no
// consumer; partial ones reached some but not all.
type ProducerStats struct {
	Published     uint64  `json:"published"`
	Undelivered   uint64  `json:"undelivered"`
	Partial       uint64  `json:"partial"`
	CaptureErrors uint64  `json:"capture_errors"`
	Stalls        uint64  `json:"stalls"`
	LastSeq       uint64  `json:"last_seq"`
	FPS           float64 `json:"fps"`
}

// StageStats counts one consumer stage. Missed is the number of sequence
// numbers skipped between received frames, drained ones included.
type StageStats struct {
	Name       string  `json:"name"`
	Consumer   int     `json:"consumer"`
	Frames     uint64  `json:"frames"`
	Missed     uint64  `json:"missed"`
	Drained    uint64  `json:"drained"`
	EmptyPolls uint64  `json:"empty_polls"`
	Errors     uint64  `json:"errors"`
	LastSeq    uint64  `json:"last_seq"`
	FPS        float64 `json:"fps"`
}

// Stats is a point-in-time view of a pipeline.
type Stats struct {
	RunID    string        `json:"run_id"`
	Producer ProducerStats `json:"producer"`
	Display  StageStats    `json:"display"`
	Analysis []StageStats  `json:"analysis"`
	Pipe     pool.Snapshot `json:"pipe"`
}
