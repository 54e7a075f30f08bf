package models

import "errors"

// ErrRecordingDisabled is returned when a live request arrives while the
// active record mode forbids recording.
var ErrRecordingDisabled = errors.New("recording is disabled")

// ErrNoMatchingRecording is returned when a live request matches no
// registered transaction during a session with the network disabled.
var ErrNoMatchingRecording = errors.New("no matching recording")
