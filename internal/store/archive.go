// Package store provides a SQLite-backed archive of forecast runs.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/household-forecast/internal/domain"
	"github.com/rpgo/household-forecast/pkg/decimal"

	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	// ErrRunNotFound is returned when no archived run matches an id.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousID is returned when an id prefix matches several runs.
	ErrAmbiguousID = errors.New("ambiguous run id")
)

// Archive stores forecast summaries and their per-month totals.
type Archive struct {
	db *sql.DB
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID            string
	Name          string
	Mode          domain.RateMode
	Seed          int64
	Simulations   int
	Months        int
	ExpectedFinal float64
	BaselineFinal float64
	CreatedAt     time.Time
}

// MonthRow is the archived real total for one month. The percentile fields
// are only valid for bootstrap runs.
type MonthRow struct {
	Month int
	Date  time.Time
	Total float64
	P10   sql.NullFloat64
	P25   sql.NullFloat64
	P50   sql.NullFloat64
	P75   sql.NullFloat64
	P90   sql.NullFloat64
}

// Run is a full archived run: summary, inputs and monthly values.
type Run struct {
	RunSummary
	Parameters domain.ParameterSet
	Settings   domain.SimulationSettings
	MonthRows  []MonthRow
}

// Open opens or creates the archive database at the given path.
func Open(dbPath string) (*Archive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening archive db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the archive database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// cents rounds a balance for storage.
func cents(v float64) float64 {
	return decimal.NewMoney(v).Round().Float64()
}

// Save archives a forecast and returns its id. A forecast without an id is
// given a new UUID, which is also written back to f.ID.
func (a *Archive) Save(f *domain.Forecast) (string, error) {
	if f == nil {
		return "", errors.New("save: nil forecast")
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	params, err := json.Marshal(f.Parameters)
	if err != nil {
		return "", fmt.Errorf("encoding parameters: %w", err)
	}
	settings, err := json.Marshal(f.Settings)
	if err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}
	simulations := 0
	if f.Ensemble != nil {
		simulations = len(f.Ensemble.Members)
	}
	created := f.GeneratedAt
	if created.IsZero() {
		created = time.Now()
	}

	tx, err := a.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO runs
		(id, name, mode, seed, simulations, months, expected_final, baseline_final,
		 parameters, settings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, string(f.Mode), f.Seed, simulations, f.Months(),
		cents(f.ExpectedFinal), cents(f.BaselineFinal),
		string(params), string(settings), created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_months
		(run_id, month, date, total, p10, p25, p50, p75, p90)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() { _ = stmt.Close() }()

	primary := f.Primary()
	for i := 0; primary != nil && i < primary.Months() && i < f.Months(); i++ {
		p := make([]any, 5)
		if f.Bands != nil && i < f.Bands.Len() {
			p[0], p[1], p[2] = cents(f.Bands.P10[i]), cents(f.Bands.P25[i]), cents(f.Bands.P50[i])
			p[3], p[4] = cents(f.Bands.P75[i]), cents(f.Bands.P90[i])
		}
		if _, err := stmt.Exec(f.ID, i, f.Timeline.Dates[i].Format("2006-01-02"), cents(primary.Total[i]),
			p[0], p[1], p[2], p[3], p[4]); err != nil {
			return "", fmt.Errorf("inserting month %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return f.ID, nil
}

const summaryColumns = `id, name, mode, seed, simulations, months, expected_final, baseline_final, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(s scanner, extra ...any) (RunSummary, error) {
	var rs RunSummary
	var mode, created string
	dest := append([]any{&rs.ID, &rs.Name, &mode, &rs.Seed, &rs.Simulations, &rs.Months,
		&rs.ExpectedFinal, &rs.BaselineFinal, &created}, extra...)
	if err := s.Scan(dest...); err != nil {
		return RunSummary{}, err
	}
	rs.Mode = domain.RateMode(mode)
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return RunSummary{}, fmt.Errorf("run %s: created_at: %w", rs.ID, err)
	}
	rs.CreatedAt = t
	return rs, nil
}

// List returns archived runs, newest first. A limit of zero or less returns all runs.
func (a *Archive) List(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := a.db.Query(`SELECT `+summaryColumns+` FROM runs
		ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []RunSummary
	for rows.Next() {
		rs, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rs)
	}
	return result, rows.Err()
}

// resolveID expands a unique id prefix to the full id.
func (a *Archive) resolveID(id string) (string, error) {
	rows, err := a.db.Query(`SELECT id FROM runs WHERE id = ? OR id LIKE ? || '%' LIMIT 2`, id, id)
	if err != nil {
		return "", err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var found string
		if err := rows.Scan(&found); err != nil {
			return "", err
		}
		if found == id {
			return id, nil
		}
		ids = append(ids, found)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

// Get loads one archived run by id or unique id prefix.
func (a *Archive) Get(id string) (*Run, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	full, err := a.resolveID(id)
	if err != nil {
		return nil, err
	}

	var params, settings string
	row := a.db.QueryRow(`SELECT `+summaryColumns+`, parameters, settings FROM runs WHERE id = ?`, full)
	summary, err := scanSummary(row, &params, &settings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	run := &Run{RunSummary: summary}
	if err := json.Unmarshal([]byte(params), &run.Parameters); err != nil {
		return nil, fmt.Errorf("run %s: decoding parameters: %w", full, err)
	}
	if err := json.Unmarshal([]byte(settings), &run.Settings); err != nil {
		return nil, fmt.Errorf("run %s: decoding settings: %w", full, err)
	}

	rows, err := a.db.Query(`SELECT month, date, total, p10, p25, p50, p75, p90
		FROM run_months WHERE run_id = ? ORDER BY month`, full)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var m MonthRow
		var date string
		if err := rows.Scan(&m.Month, &date, &m.Total, &m.P10, &m.P25, &m.P50, &m.P75, &m.P90); err != nil {
			return nil, err
		}
		if m.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("run %s month %d: %w", full, m.Month, err)
		}
		run.MonthRows = append(run.MonthRows, m)
	}
	return run, rows.Err()
}

// Delete removes an archived run and its monthly values.
func (a *Archive) Delete(id string) error {
	full, err := a.resolveID(id)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(`DELETE FROM runs WHERE id = ?`, full)
	return err
}
