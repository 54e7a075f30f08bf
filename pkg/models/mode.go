package models

import "fmt"

// RecordMode controls whether a session may record new transactions, replay
// existing ones, or neither. Exactly one mode is active per manager.
type RecordMode string

const (
	// ModeAppend replays existing transactions and records unmatched calls,
	// writing the merged list back on exit.
	ModeAppend RecordMode = "append"
	// ModeOnce records when no recording exists; once one does, it is a
	// closed contract and unmatched calls fail.
	ModeOnce RecordMode = "once"
	// ModeOverwrite ignores any existing recording and re-records.
	ModeOverwrite RecordMode = "overwrite"
	// ModeBlock forbids both recording and replay.
	ModeBlock RecordMode = "block"
	// ModeReplayOnly replays existing transactions and refuses to record.
	ModeReplayOnly RecordMode = "replay-only"
)

// CanRecord reports whether the mode permits capturing new transactions.
func (m RecordMode) CanRecord() bool {
	switch m {
	case ModeAppend, ModeOnce, ModeOverwrite:
		return true
	}
	return false
}

// CanReplay reports whether the mode permits serving recorded transactions.
func (m RecordMode) CanReplay() bool {
	switch m {
	case ModeAppend, ModeOnce, ModeReplayOnly:
		return true
	}
	return false
}

// Validate rejects modes outside the known set.
func (m RecordMode) Validate() error {
	switch m {
	case ModeAppend, ModeOnce, ModeOverwrite, ModeBlock, ModeReplayOnly:
		return nil
	}
	return fmt.Errorf("unknown record mode %q", string(m))
}

func (m RecordMode) String() string {
	return string(m)
}
