package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-decision
// LogDecision writes a provenance entry to the decision_log table.
func LogDecision(db *sql.DB, entry DecisionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO decision_log (version_id, origin, action, reason, vetoes_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.VersionID,
		entry.Origin,
		entry.Action,
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.VetoesJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region recent
// RecentDecisions returns the latest decision rows, newest first.
func RecentDecisions(db *sql.DB, limit int) ([]DecisionEntry, error) {
	rows, err := db.Query(
		`SELECT version_id, origin, action, reason, vetoes_json, created_at
		 FROM decision_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionEntry
	for rows.Next() {
		var e DecisionEntry
		var reason, vetoes sql.NullString
		var createdStr string
		if err := rows.Scan(&e.VersionID, &e.Origin, &e.Action, &reason, &vetoes, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if reason.Valid {
			e.Reason = reason.String
		}
		if vetoes.Valid {
			e.VetoesJSON = vetoes.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion recent

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
