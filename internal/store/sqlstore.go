package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nilIfEmpty maps "" to nil so empty strings are stored as SQL NULL.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations. The parent
// directory is created if missing.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers; batch workers all funnel their
	// upserts through here and SQLITE_BUSY never surfaces.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SqlStore) Close() error { return s.db.Close() }

// migrate creates the schema and stamps the version on first open.
func (s *SqlStore) migrate() error {
	if _, err := s.db.Exec(schemaV1); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("stamp schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("store schema version %d is newer than this build supports (%d)", version, currentSchemaVersion)
	}
	return nil
}

// --- Runs ---

func (s *SqlStore) CreateRun(run *Run) (err error) {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.Status == "" {
		run.Status = RunPending
	}
	if run.StartedAt == "" {
		run.StartedAt = nowUTC()
	}
	_, err = s.db.Exec(
		`INSERT INTO runs(id, status, workers, total_cases, succeeded, failed, converged, checkpoint_cursor, started_at, ended_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Status, run.Workers, run.TotalCases,
		run.Succeeded, run.Failed, run.Converged, run.CheckpointCursor,
		run.StartedAt, nilIfEmpty(run.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *SqlStore) GetRun(id string) (*Run, error) {
	var r Run
	var endedAt sql.NullString
	err := s.db.QueryRow(
		`SELECT id, status, workers, total_cases, succeeded, failed, converged, checkpoint_cursor, started_at, ended_at
		 FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.Status, &r.Workers, &r.TotalCases,
		&r.Succeeded, &r.Failed, &r.Converged, &r.CheckpointCursor,
		&r.StartedAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	r.EndedAt = nullStr(endedAt)
	return &r, nil
}

func (s *SqlStore) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, status, workers, total_cases, succeeded, failed, converged, checkpoint_cursor, started_at, ended_at
		 FROM runs ORDER BY started_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var out []*Run
	for rows.Next() {
		var r Run
		var endedAt sql.NullString
		if err := rows.Scan(&r.ID, &r.Status, &r.Workers, &r.TotalCases,
			&r.Succeeded, &r.Failed, &r.Converged, &r.CheckpointCursor,
			&r.StartedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.EndedAt = nullStr(endedAt)
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *SqlStore) UpdateRunCheckpoint(id string, succeeded, failed, converged, cursor int) error {
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, succeeded = ?, failed = ?, converged = ?, checkpoint_cursor = ?
		 WHERE id = ?`,
		RunRunning, succeeded, failed, converged, cursor, id,
	)
	if err != nil {
		return fmt.Errorf("update checkpoint: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

func (s *SqlStore) FinishRun(id, status string, succeeded, failed, converged int) error {
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, succeeded = ?, failed = ?, converged = ?, ended_at = ?
		 WHERE id = ?`,
		status, succeeded, failed, converged, nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// --- Case results ---

func (s *SqlStore) SaveCaseResult(res *CaseResult) error {
	if res == nil {
		return errors.New("case result is nil")
	}
	if res.CompletedAt == "" {
		res.CompletedAt = nowUTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO case_results(
			run_id, case_id, state,
			binder_aggregate, fly_ash_replacement, co2_fraction, sodium_silicate, water_binder,
			composition, phases, ph, converged,
			dominant_phase, assemblage_signature, carbonation_state, ph_regime, composition_region,
			error_kind, completed_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, case_id) DO UPDATE SET
			state = excluded.state,
			composition = excluded.composition,
			phases = excluded.phases,
			ph = excluded.ph,
			converged = excluded.converged,
			dominant_phase = excluded.dominant_phase,
			assemblage_signature = excluded.assemblage_signature,
			carbonation_state = excluded.carbonation_state,
			ph_regime = excluded.ph_regime,
			composition_region = excluded.composition_region,
			error_kind = excluded.error_kind,
			completed_at = excluded.completed_at`,
		res.RunID, res.CaseID, res.State,
		res.BinderAggregateRatio, res.FlyAshReplacement, res.CO2Fraction,
		res.SodiumSilicateDosage, res.WaterBinderRatio,
		res.CompositionJSON, res.PhasesJSON, res.PH, res.Converged,
		nilIfEmpty(res.DominantPhase), nilIfEmpty(res.Signature), nilIfEmpty(res.Carbonation),
		nilIfEmpty(res.PHRegime), nilIfEmpty(res.Region),
		nilIfEmpty(res.ErrorKind), res.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save case result: %w", err)
	}
	return nil
}

func (s *SqlStore) ListCaseResults(runID string) ([]*CaseResult, error) {
	rows, err := s.db.Query(
		`SELECT run_id, case_id, state,
			binder_aggregate, fly_ash_replacement, co2_fraction, sodium_silicate, water_binder,
			composition, phases, ph, converged,
			dominant_phase, assemblage_signature, carbonation_state, ph_regime, composition_region,
			error_kind, completed_at
		 FROM case_results WHERE run_id = ? ORDER BY case_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list case results: %w", err)
	}
	defer rows.Close()
	var out []*CaseResult
	for rows.Next() {
		res, err := scanCaseResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanCaseResult(rows *sql.Rows) (*CaseResult, error) {
	var res CaseResult
	var dominant, signature, carbonation, regime, region, errorKind sql.NullString
	if err := rows.Scan(&res.RunID, &res.CaseID, &res.State,
		&res.BinderAggregateRatio, &res.FlyAshReplacement, &res.CO2Fraction,
		&res.SodiumSilicateDosage, &res.WaterBinderRatio,
		&res.CompositionJSON, &res.PhasesJSON, &res.PH, &res.Converged,
		&dominant, &signature, &carbonation, &regime, &region,
		&errorKind, &res.CompletedAt); err != nil {
		return nil, fmt.Errorf("scan case result: %w", err)
	}
	res.DominantPhase = nullStr(dominant)
	res.Signature = nullStr(signature)
	res.Carbonation = nullStr(carbonation)
	res.PHRegime = nullStr(regime)
	res.Region = nullStr(region)
	res.ErrorKind = nullStr(errorKind)
	return &res, nil
}

// RunProgress reconstructs resume state from the case_results table alone;
// the run row's counters are advisory (they lag by up to one checkpoint).
func (s *SqlStore) RunProgress(runID string) (*Progress, error) {
	rows, err := s.db.Query(
		`SELECT case_id, state, converged, error_kind FROM case_results WHERE run_id = ? ORDER BY case_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("run progress: %w", err)
	}
	defer rows.Close()
	p := &Progress{Done: map[string]struct{}{}}
	for rows.Next() {
		var caseID, state string
		var converged bool
		var errorKind sql.NullString
		if err := rows.Scan(&caseID, &state, &converged, &errorKind); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p.Done[caseID] = struct{}{}
		if state == CaseConverged {
			p.Succeeded++
		} else {
			p.Failed++
			p.Failures = append(p.Failures, FailedCase{CaseID: caseID, Kind: nullStr(errorKind)})
		}
		if converged {
			p.Converged++
		}
	}
	return p, rows.Err()
}
