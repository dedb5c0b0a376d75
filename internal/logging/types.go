package logging

import "time"

// #region decision-entry
// DecisionEntry is a single row in the decision_log table: one applied
// or rejected preference update, with the guard vetoes that shaped it.
type DecisionEntry struct {
	VersionID  string
	Origin     string
	Action     string // "commit" | "no_op"
	Reason     string
	VetoesJSON string
	CreatedAt  time.Time
}

// #endregion decision-entry
