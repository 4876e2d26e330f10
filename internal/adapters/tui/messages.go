package tui

import "time"

// MsgPlan announces the packages of the next combination.
type MsgPlan struct {
	Names   []string
	Targets []string
}

// MsgStageStart is sent when a package stage begins.
type MsgStageStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgStageLog carries output of a running stage.
type MsgStageLog struct {
	SpanID string
	Data   []byte
}

// MsgStageComplete is sent when a package stage finishes.
type MsgStageComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
