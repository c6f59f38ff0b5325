package store

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = 1

// schemaV1 holds runs and per-case results. case_results is keyed by
// (run_id, case_id) so concurrent workers writing distinct cases never
// conflict, and a rewrite of the same case is an upsert.
var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	status            TEXT NOT NULL,
	workers           INTEGER NOT NULL,
	total_cases       INTEGER NOT NULL,
	succeeded         INTEGER NOT NULL DEFAULT 0,
	failed            INTEGER NOT NULL DEFAULT 0,
	converged         INTEGER NOT NULL DEFAULT 0,
	checkpoint_cursor INTEGER NOT NULL DEFAULT 0,
	started_at        TEXT NOT NULL,
	ended_at          TEXT
);

CREATE TABLE IF NOT EXISTS case_results (
	run_id               TEXT NOT NULL REFERENCES runs(id),
	case_id              TEXT NOT NULL,
	state                TEXT NOT NULL,
	binder_aggregate     REAL NOT NULL DEFAULT 0,
	fly_ash_replacement  REAL NOT NULL DEFAULT 0,
	co2_fraction         REAL NOT NULL DEFAULT 0,
	sodium_silicate      REAL NOT NULL DEFAULT 0,
	water_binder         REAL NOT NULL DEFAULT 0,
	composition          BLOB,
	phases               BLOB,
	ph                   REAL NOT NULL DEFAULT 0,
	converged            INTEGER NOT NULL DEFAULT 0,
	dominant_phase       TEXT,
	assemblage_signature TEXT,
	carbonation_state    TEXT,
	ph_regime            TEXT,
	composition_region   TEXT,
	error_kind           TEXT,
	completed_at         TEXT NOT NULL,
	PRIMARY KEY (run_id, case_id)
);

CREATE INDEX IF NOT EXISTS idx_case_results_run_state
	ON case_results(run_id, state);
`
