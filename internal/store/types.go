// Package store persists batch runs and per-case results. Two
// implementations share the Store interface: SqlStore (SQLite, durable) and
// MemStore (tests and throwaway runs).
package store

// Run status values.
const (
	RunPending     = "pending"
	RunRunning     = "running"
	RunCompleted   = "completed"
	RunInterrupted = "interrupted"
)

// Terminal case states.
const (
	CaseConverged = "converged"
	CaseFailed    = "failed"
	CaseTimedOut  = "timed_out"
)

// Run is one batch execution over a case set.
type Run struct {
	ID         string
	Status     string
	Workers    int
	TotalCases int

	// Aggregate counters, refreshed at every checkpoint.
	Succeeded int
	Failed    int
	Converged int

	// CheckpointCursor is the completed-case count at the last durable
	// checkpoint; resume trusts the case_results table, the cursor is for
	// status display.
	CheckpointCursor int

	StartedAt string
	EndedAt   string
}

// CaseResult is the persisted outcome of a single case. Structured payloads
// (composition, phase amounts) are stored as JSON blobs; the classification
// labels and design levels are flat columns so reporting can query them.
type CaseResult struct {
	RunID  string
	CaseID string
	State  string

	BinderAggregateRatio float64
	FlyAshReplacement    float64
	CO2Fraction          float64
	SodiumSilicateDosage float64
	WaterBinderRatio     float64

	CompositionJSON []byte
	PhasesJSON      []byte
	PH              float64
	Converged       bool

	DominantPhase string
	Signature     string
	Carbonation   string
	PHRegime      string
	Region        string

	ErrorKind   string
	CompletedAt string
}

// FailedCase identifies a terminally failed case and why it failed.
type FailedCase struct {
	CaseID string
	Kind   string
}

// Progress is the resume view of a run: which cases already reached a
// terminal state, the counters they contribute, and the failures among them
// so a resumed run can report them alongside its own.
type Progress struct {
	Done      map[string]struct{}
	Succeeded int
	Failed    int
	Converged int
	Failures  []FailedCase
}

// Store is the persistence boundary of the batch orchestrator.
type Store interface {
	CreateRun(run *Run) error
	GetRun(id string) (*Run, error)
	ListRuns() ([]*Run, error)
	UpdateRunCheckpoint(id string, succeeded, failed, converged, cursor int) error
	FinishRun(id, status string, succeeded, failed, converged int) error

	SaveCaseResult(res *CaseResult) error
	ListCaseResults(runID string) ([]*CaseResult, error)
	RunProgress(runID string) (*Progress, error)

	Close() error
}
