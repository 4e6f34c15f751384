package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/amr-stencil/internal/amr"
	"github.com/banshee-data/amr-stencil/internal/stencil"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one persisted benchmark execution.
type Run struct {
	RunID          string
	CreatedAt      int64 // unix nanoseconds
	Params         amr.Params
	Validates      bool
	BackgroundNorm float64
	RefinementNorm [amr.NumPatches]float64
	Interpolations int
	Elapsed        time.Duration
	AvgIteration   time.Duration
	Flops          float64
	MFlopsPerSec   float64
}

// RunFromResult builds the record for a finished run.
func RunFromResult(res *amr.Result) *Run {
	r := &Run{
		Params:         res.Params,
		Validates:      res.Validates,
		BackgroundNorm: res.Background.Norm,
		Interpolations: res.Interpolations,
		Elapsed:        res.Elapsed,
		AvgIteration:   res.AvgIteration,
		Flops:          res.Flops,
		MFlopsPerSec:   res.MFlopsPerSec,
	}
	for g, c := range res.Patches {
		r.RefinementNorm[g] = c.Norm
	}
	return r
}

// RunStore provides persistence for benchmark runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db.DB}
}

// Insert persists a run. If RunID is empty, a UUID is generated; a zero
// CreatedAt is set to the current time.
func (s *RunStore) Insert(r *Run) error {
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().UnixNano()
	}

	norms, err := json.Marshal(r.RefinementNorm)
	if err != nil {
		return fmt.Errorf("marshal refinement norms: %w", err)
	}

	p := r.Params
	_, err = s.db.Exec(`
		INSERT INTO amr_runs (
			run_id, created_at,
			iterations, grid_size, refinement_cells, refinement_level,
			period, duration, sub_iterations, tile_size, radius, shape, workers,
			validates, background_norm, refinement_norms_json, interpolations,
			elapsed_ns, avg_iteration_ns, flops, mflops_per_sec
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt,
		p.Iterations, p.GridSize, p.RefinementCells, p.RefinementLevel,
		p.Period, p.Duration, p.SubIterations, p.TileSize, p.Radius, p.Shape.String(), p.Workers,
		r.Validates, r.BackgroundNorm, string(norms), r.Interpolations,
		int64(r.Elapsed), int64(r.AvgIteration), r.Flops, r.MFlopsPerSec,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}
	return nil
}

const runColumns = `
	run_id, created_at,
	iterations, grid_size, refinement_cells, refinement_level,
	period, duration, sub_iterations, tile_size, radius, shape, workers,
	validates, background_norm, refinement_norms_json, interpolations,
	elapsed_ns, avg_iteration_ns, flops, mflops_per_sec`

// Get returns a single run by ID.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM amr_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (s *RunStore) List(limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM amr_runs ORDER BY created_at DESC, run_id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r         Run
		shape     string
		norms     sql.NullString
		elapsed   int64
		avg       int64
		validates bool
	)
	p := &r.Params
	err := sc.Scan(
		&r.RunID, &r.CreatedAt,
		&p.Iterations, &p.GridSize, &p.RefinementCells, &p.RefinementLevel,
		&p.Period, &p.Duration, &p.SubIterations, &p.TileSize, &p.Radius, &shape, &p.Workers,
		&validates, &r.BackgroundNorm, &norms, &r.Interpolations,
		&elapsed, &avg, &r.Flops, &r.MFlopsPerSec,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}

	if p.Shape, err = stencil.ParseShape(shape); err != nil {
		return nil, fmt.Errorf("run %s: %w", r.RunID, err)
	}
	if norms.Valid && norms.String != "" {
		if err := json.Unmarshal([]byte(norms.String), &r.RefinementNorm); err != nil {
			return nil, fmt.Errorf("run %s: parse refinement norms: %w", r.RunID, err)
		}
	}
	r.Validates = validates
	r.Elapsed = time.Duration(elapsed)
	r.AvgIteration = time.Duration(avg)
	return &r, nil
}
