// Package store persists datasets in SQLite. A dataset is written in one
// transaction, so a reader never sees parameters without their measurements.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/inference-sim/plasma-sim/sim"
	"github.com/inference-sim/plasma-sim/sim/dataset"
)

var (
	// ErrNotFound is returned when no dataset has the requested id.
	ErrNotFound = errors.New("dataset not found")
	// ErrAlreadyExists is returned when saving a dataset whose id is taken.
	ErrAlreadyExists = errors.New("dataset already exists")
)

// Summary is the metadata row of a stored dataset.
type Summary struct {
	ID               string
	Seed             sim.Seed
	NumBins          int
	NumWavelengths   int
	NumSensors       int
	Shift            float64
	CenterWavelength float64
	CreatedAt        time.Time
}

// Store persists datasets in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite dataset store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps the per-connection PRAGMAs in force for every statement.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &Store{db: db, now: time.Now}
	if err := s.MigrateUp(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func applyPragmas(db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes d and all of its arrays in one transaction.
func (s *Store) Save(ctx context.Context, d *dataset.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	k, w, sensors := d.Dims()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", d.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (
		   id, seed, num_bins, num_wavelengths, num_sensors, shift, center_wavelength, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Seed.String(), k, w, sensors, d.Params.Shift, d.CenterWavelength(), toMillis(s.now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save dataset %s: %w", d.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("save dataset %s: %w", d.ID, err)
	}

	arrays := d.Arrays()
	for _, name := range dataset.ArrayNames {
		a := arrays[name]
		blob, err := mat.NewVecDense(len(a.Data), a.Data).MarshalBinary()
		if err != nil {
			return fmt.Errorf("encode %s of %s: %w", name, d.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dataset_arrays (dataset_id, name, shape, data) VALUES (?, ?, ?, ?)`,
			d.ID, name, formatShape(a.Shape), blob,
		); err != nil {
			return fmt.Errorf("save %s of %s: %w", name, d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset %s: %w", d.ID, err)
	}
	return nil
}

// Load reads the dataset with the given id.
func (s *Store) Load(ctx context.Context, id string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	summary, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, shape, data FROM dataset_arrays WHERE dataset_id = ?`, summary.ID)
	if err != nil {
		return nil, fmt.Errorf("load arrays of %s: %w", summary.ID, err)
	}
	defer rows.Close()

	arrays := make(map[string]dataset.Array, len(dataset.ArrayNames))
	for rows.Next() {
		var (
			name, shape string
			blob        []byte
		)
		if err := rows.Scan(&name, &shape, &blob); err != nil {
			return nil, fmt.Errorf("scan array of %s: %w", summary.ID, err)
		}
		dims, err := parseShape(shape)
		if err != nil {
			return nil, fmt.Errorf("array %s of %s: %w", name, summary.ID, err)
		}
		var v mat.VecDense
		if err := v.UnmarshalBinary(blob); err != nil {
			return nil, fmt.Errorf("decode %s of %s: %w", name, summary.ID, err)
		}
		arrays[name] = dataset.Array{Shape: dims, Data: v.RawVector().Data}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load arrays of %s: %w", summary.ID, err)
	}

	d, err := dataset.FromArrays(arrays)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", summary.ID, err)
	}
	d.ID = summary.ID
	d.Seed = summary.Seed
	return d, nil
}

// Get returns the metadata row of one dataset.
func (s *Store) Get(ctx context.Context, id string) (Summary, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Summary{}, fmt.Errorf("dataset id %q: %w", id, err)
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, seed, num_bins, num_wavelengths, num_sensors, shift, center_wavelength, created_at
		 FROM datasets WHERE id = ?`, id)
	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, fmt.Errorf("dataset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("get dataset %s: %w", id, err)
	}
	return summary, nil
}

// List returns every stored dataset, oldest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed, num_bins, num_wavelengths, num_sensors, shift, center_wavelength, created_at
		 FROM datasets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("list datasets: %w", err)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return out, nil
}

// Delete removes a dataset and its arrays in one transaction.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_arrays WHERE dataset_id = ?`, id); err != nil {
		return fmt.Errorf("delete arrays of %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dataset %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("dataset %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (Summary, error) {
	var (
		summary   Summary
		seed      string
		createdAt int64
	)
	if err := row.Scan(&summary.ID, &seed, &summary.NumBins, &summary.NumWavelengths, &summary.NumSensors,
		&summary.Shift, &summary.CenterWavelength, &createdAt); err != nil {
		return Summary{}, err
	}
	parsed, err := sim.ParseSeed(seed)
	if err != nil {
		return Summary{}, err
	}
	summary.Seed = parsed
	summary.CreatedAt = fromMillis(createdAt)
	return summary, nil
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func parseShape(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	dims := make([]int, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parse shape %q: %w", s, err)
		}
		dims[i] = d
	}
	return dims, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
