package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/prefs"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS pref_versions (
	version_id        TEXT PRIMARY KEY,
	parent_id         TEXT,
	performance_level TEXT NOT NULL,
	reduce_motion     INTEGER NOT NULL,
	animation_scale   REAL NOT NULL,
	enable_haptics    INTEGER NOT NULL,
	enable_parallax   INTEGER NOT NULL,
	origin            TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES pref_versions(version_id)
);

CREATE TABLE IF NOT EXISTS active_pref (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	version_id  TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES pref_versions(version_id)
);

CREATE TABLE IF NOT EXISTS degradation_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	fps         INTEGER NOT NULL,
	version_id  TEXT,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS decision_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	version_id  TEXT NOT NULL,
	origin      TEXT NOT NULL,
	action      TEXT NOT NULL,
	reason      TEXT,
	vetoes_json TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store persists versioned preference records and the degradation log
// in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region save

// Save inserts a preference version and moves the active pointer
// atomically. Called after every applied update.
func (s *Store) Save(rec prefs.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parentPtr interface{}
	if rec.ParentID != "" {
		parentPtr = rec.ParentID
	}

	_, err = tx.Exec(
		`INSERT INTO pref_versions (version_id, parent_id, performance_level, reduce_motion,
		                            animation_scale, enable_haptics, enable_parallax, origin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.VersionID, parentPtr, string(rec.PerformanceLevel), boolInt(rec.ReduceMotion),
		rec.AnimationScale, boolInt(rec.EnableHapticFeedback), boolInt(rec.EnableParallax),
		string(rec.Origin), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_pref (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		rec.VersionID,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	return tx.Commit()
}

// #endregion save

// #region load

// Load reads the active preference record. Returns ok=false when no
// record exists or the stored row is invalid — both mean "seed from
// capability estimation" and are never fatal.
func (s *Store) Load() (prefs.Record, bool, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM active_pref WHERE id = 1`).Scan(&versionID)
	if err == sql.ErrNoRows {
		return prefs.Record{}, false, nil
	}
	if err != nil {
		return prefs.Record{}, false, fmt.Errorf("get active: %w", err)
	}

	rec, err := s.getVersion(versionID)
	if err != nil {
		return prefs.Record{}, false, fmt.Errorf("get version %s: %w", versionID, err)
	}
	if !validRecord(rec) {
		return prefs.Record{}, false, nil
	}
	return rec, true, nil
}

func (s *Store) getVersion(id string) (prefs.Record, error) {
	var rec prefs.Record
	var parentID sql.NullString
	var level, origin, createdStr string
	var reduce, haptics, parallax int

	err := s.db.QueryRow(
		`SELECT version_id, parent_id, performance_level, reduce_motion, animation_scale,
		        enable_haptics, enable_parallax, origin, created_at
		 FROM pref_versions WHERE version_id = ?`, id,
	).Scan(&rec.VersionID, &parentID, &level, &reduce, &rec.AnimationScale,
		&haptics, &parallax, &origin, &createdStr)
	if err != nil {
		return prefs.Record{}, err
	}

	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	rec.PerformanceLevel = prefs.Level(level)
	rec.ReduceMotion = reduce != 0
	rec.EnableHapticFeedback = haptics != 0
	rec.EnableParallax = parallax != 0
	rec.Origin = prefs.Origin(origin)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// validRecord rejects rows a different build or a manual edit may have
// left behind. An invalid row is treated as "not present".
func validRecord(rec prefs.Record) bool {
	if !rec.PerformanceLevel.Valid() {
		return false
	}
	if rec.AnimationScale < prefs.ScaleMin || rec.AnimationScale > prefs.ScaleMax {
		return false
	}
	return true
}

// #endregion load

// #region history

// History returns the most recent preference versions, newest first.
func (s *Store) History(limit int) ([]prefs.Record, error) {
	rows, err := s.db.Query(
		`SELECT version_id FROM pref_versions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]prefs.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.getVersion(id)
		if err != nil {
			return nil, fmt.Errorf("get version %s: %w", id, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// #endregion history

// #region degradation-log

// DegradationRow is one persisted degradation event.
type DegradationRow struct {
	FPS       int
	VersionID string
	CreatedAt time.Time
}

// LogDegradation appends a degradation event to the log. versionID is
// the preference version the event produced (may be empty when the
// update was a no-op).
func (s *Store) LogDegradation(fps int, versionID string, at time.Time) error {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	var versionPtr interface{}
	if versionID != "" {
		versionPtr = versionID
	}
	_, err := s.db.Exec(
		`INSERT INTO degradation_log (fps, version_id, created_at) VALUES (?, ?, ?)`,
		fps, versionPtr, at.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log degradation: %w", err)
	}
	return nil
}

// Degradations returns the most recent degradation events, newest first.
func (s *Store) Degradations(limit int) ([]DegradationRow, error) {
	rows, err := s.db.Query(
		`SELECT fps, version_id, created_at FROM degradation_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list degradations: %w", err)
	}
	defer rows.Close()

	var out []DegradationRow
	for rows.Next() {
		var row DegradationRow
		var versionID sql.NullString
		var createdStr string
		if err := rows.Scan(&row.FPS, &versionID, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if versionID.Valid {
			row.VersionID = versionID.String
		}
		row.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, row)
	}
	return out, rows.Err()
}

// #endregion degradation-log

// #region helpers

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
