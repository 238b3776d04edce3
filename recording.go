// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gr

import (
	"fmt"
	"sync/atomic"
)

var (
	recordingSequence atomic.Uint64
	recordingEpochs   atomic.Uint64
)

// RecordingTarget is an append-only list of batches bound to one render
// target. Once closed it accepts no more work and is waiting to be
// executed.
type RecordingTarget struct {
	rt        *RenderTarget
	seq       uint64
	epoch     uint64
	batches   []Batch
	closed    bool
	instanced InstancedRendering
	deps      []*RecordingTarget
}

func newRecordingTarget(rt *RenderTarget, ir InstancedRendering) *RecordingTarget {
	return &RecordingTarget{
		rt:        rt,
		seq:       recordingSequence.Add(1),
		epoch:     recordingEpochs.Add(1),
		instanced: ir,
	}
}

// RenderTarget returns the target the recorded work draws into.
func (t *RecordingTarget) RenderTarget() *RenderTarget { return t.rt }

// Sequence returns the global creation order of the target. Flush executes
// recording targets in increasing sequence.
func (t *RecordingTarget) Sequence() uint64 { return t.seq }

// Epoch returns the generation token issued with the target.
func (t *RecordingTarget) Epoch() uint64 { return t.epoch }

// IsClosed reports whether the target stopped accepting work.
func (t *RecordingTarget) IsClosed() bool { return t.closed }

// Len returns the number of recorded batches.
func (t *RecordingTarget) Len() int { return len(t.batches) }

// Batches returns a copy of the recorded batches in append order.
func (t *RecordingTarget) Batches() []Batch {
	out := make([]Batch, len(t.batches))
	copy(out, t.batches)
	return out
}

// Dependencies returns the recording targets that were closed because
// this one reads their render targets.
func (t *RecordingTarget) Dependencies() []*RecordingTarget {
	out := make([]*RecordingTarget, len(t.deps))
	copy(out, t.deps)
	return out
}

// InstancedRendering returns the instanced facility of the target, or nil
// when instancing is unavailable.
func (t *RecordingTarget) InstancedRendering() InstancedRendering { return t.instanced }

// Append records b. Appending to a closed target is an error.
func (t *RecordingTarget) Append(b Batch) error {
	if t.closed {
		return fmt.Errorf("%w: sequence %d", ErrRecordingClosed, t.seq)
	}
	t.batches = append(t.batches, b)
	return nil
}

// Close stops the target from accepting work. Closing twice is a no-op.
func (t *RecordingTarget) Close() {
	t.closed = true
}

// addDependency closes the open recording target of src so that reads of
// src observe all work recorded so far.
func (t *RecordingTarget) addDependency(src *RenderTarget) {
	if src == nil || src == t.rt {
		return
	}
	last, _ := src.LastRecordingTarget()
	if last == nil {
		return
	}
	last.Close()
	t.deps = append(t.deps, last)
}

// RecordingHandle is a render context's reference to the recording target
// it last appended to. It pairs the target with the epoch it was issued
// under so staleness is an explicit query instead of pointer comparison.
type RecordingHandle struct {
	target *RecordingTarget
	epoch  uint64
}

func newRecordingHandle(t *RecordingTarget) RecordingHandle {
	return RecordingHandle{target: t, epoch: t.epoch}
}

// Target returns the referenced target, or nil for the zero handle.
func (h RecordingHandle) Target() *RecordingTarget { return h.target }

// Stale reports whether the handle can no longer be appended to: it is
// empty, its target is closed, or its render target has since been given
// a newer recording target.
func (h RecordingHandle) Stale() bool {
	if h.target == nil || h.target.closed {
		return true
	}
	_, epoch := h.target.rt.LastRecordingTarget()
	return epoch != h.epoch
}
