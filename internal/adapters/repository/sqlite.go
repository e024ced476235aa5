package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/okian/skillgraph/internal/domain/model"
	"github.com/okian/skillgraph/internal/domain/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS skills (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	verb        TEXT NOT NULL,
	focus       TEXT NOT NULL,
	operation   TEXT NOT NULL,
	unit_id     TEXT NOT NULL,
	unit_name   TEXT NOT NULL,
	rit_anchor  INTEGER,
	rit_stretch INTEGER,
	range_min   INTEGER,
	range_max   INTEGER,
	grade_spans TEXT NOT NULL,
	body        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS skills_unit ON skills(unit_id);
CREATE TABLE IF NOT EXISTS relationships (
	id        TEXT PRIMARY KEY,
	type      TEXT NOT NULL,
	from_id   TEXT NOT NULL,
	to_id     TEXT NOT NULL,
	rationale TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS relationships_to ON relationships(to_id);
`

// SQLiteStore mirrors the graph into an SQLite database. Every Save
// replaces the previous contents in one transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrOpenStore, path, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenStore, path, err)
	}
	// One connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA busy_timeout = 10000", "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL"} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrOpenStore, stmt, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: schema: %w", ErrOpenStore, err)
	}
	return &SQLiteStore{db: db}, nil
}

// DB exposes the handle for read access.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces every stored skill and relationship with g.
func (s *SQLiteStore) Save(ctx context.Context, g types.Graph) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrWriteOutput, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{"DELETE FROM relationships", "DELETE FROM skills"} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteOutput, stmt, err)
		}
	}

	insSkill, err := tx.PrepareContext(ctx, `INSERT INTO skills
		(id, title, description, verb, focus, operation, unit_id, unit_name,
		 rit_anchor, rit_stretch, range_min, range_max, grade_spans, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare skills: %w", ErrWriteOutput, err)
	}
	defer insSkill.Close()

	for _, n := range g.Skills {
		body, mErr := json.Marshal(n)
		if mErr != nil {
			err = fmt.Errorf("%w: encode %s: %w", ErrWriteOutput, n.ID, mErr)
			return err
		}
		var rMin, rMax *int
		if n.Range != nil {
			rMin, rMax = n.Range.Min, n.Range.Max
		}
		if _, err = insSkill.ExecContext(ctx,
			n.ID, n.Title, n.Description, n.Verb, n.Focus, n.Operation, n.UnitID, n.UnitName,
			nullInt(n.RitAnchor), nullInt(n.RitStretch), nullInt(rMin), nullInt(rMax),
			strings.Join(n.GradeSpans, ","), string(body),
		); err != nil {
			return fmt.Errorf("%w: insert skill %s: %w", ErrWriteOutput, n.ID, err)
		}
	}

	insEdge, err := tx.PrepareContext(ctx,
		`INSERT INTO relationships (id, type, from_id, to_id, rationale) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare relationships: %w", ErrWriteOutput, err)
	}
	defer insEdge.Close()

	for _, e := range g.Relationships {
		if _, err = insEdge.ExecContext(ctx, e.ID, e.Type, e.From, e.To, e.Rationale); err != nil {
			return fmt.Errorf("%w: insert relationship %s: %w", ErrWriteOutput, e.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrWriteOutput, err)
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// LoadSkill reads one stored node back from its JSON body.
func (s *SQLiteStore) LoadSkill(ctx context.Context, id string) (model.SkillNode, error) {
	var body string
	if err := s.db.QueryRowContext(ctx, `SELECT body FROM skills WHERE id = ?`, id).Scan(&body); err != nil {
		return model.SkillNode{}, err
	}
	var n model.SkillNode
	if err := json.Unmarshal([]byte(body), &n); err != nil {
		return model.SkillNode{}, err
	}
	return n, nil
}
