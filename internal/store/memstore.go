package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory Store for tests and --store mem runs. Values are
// copied on the way in and out so callers cannot alias internal state.
type MemStore struct {
	mu    sync.Mutex
	runs  map[string]*Run
	cases map[string]map[string]*CaseResult // run id -> case id -> result
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		runs:  map[string]*Run{},
		cases: map[string]map[string]*CaseResult{},
	}
}

func (m *MemStore) Close() error { return nil }

func (m *MemStore) CreateRun(run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; ok {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	if run.Status == "" {
		run.Status = RunPending
	}
	if run.StartedAt == "" {
		run.StartedAt = nowUTC()
	}
	cp := *run
	m.runs[run.ID] = &cp
	m.cases[run.ID] = map[string]*CaseResult{}
	return nil
}

func (m *MemStore) GetRun(id string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *MemStore) ListRuns() ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt < out[j].StartedAt })
	return out, nil
}

func (m *MemStore) UpdateRunCheckpoint(id string, succeeded, failed, converged, cursor int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return fmt.Errorf("run %s not found", id)
	}
	r.Status = RunRunning
	r.Succeeded, r.Failed, r.Converged = succeeded, failed, converged
	r.CheckpointCursor = cursor
	return nil
}

func (m *MemStore) FinishRun(id, status string, succeeded, failed, converged int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return fmt.Errorf("run %s not found", id)
	}
	r.Status = status
	r.Succeeded, r.Failed, r.Converged = succeeded, failed, converged
	r.EndedAt = nowUTC()
	return nil
}

func (m *MemStore) SaveCaseResult(res *CaseResult) error {
	if res == nil {
		return errors.New("case result is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byCase, ok := m.cases[res.RunID]
	if !ok {
		return fmt.Errorf("run %s not found", res.RunID)
	}
	if res.CompletedAt == "" {
		res.CompletedAt = nowUTC()
	}
	cp := *res
	byCase[res.CaseID] = &cp
	return nil
}

func (m *MemStore) ListCaseResults(runID string) ([]*CaseResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byCase, ok := m.cases[runID]
	if !ok {
		return nil, nil
	}
	out := make([]*CaseResult, 0, len(byCase))
	for _, res := range byCase {
		cp := *res
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CaseID < out[j].CaseID })
	return out, nil
}

func (m *MemStore) RunProgress(runID string) (*Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &Progress{Done: map[string]struct{}{}}
	ids := make([]string, 0, len(m.cases[runID]))
	for caseID := range m.cases[runID] {
		ids = append(ids, caseID)
	}
	sort.Strings(ids)
	for _, caseID := range ids {
		res := m.cases[runID][caseID]
		p.Done[caseID] = struct{}{}
		if res.State == CaseConverged {
			p.Succeeded++
		} else {
			p.Failed++
			p.Failures = append(p.Failures, FailedCase{CaseID: caseID, Kind: res.ErrorKind})
		}
		if res.Converged {
			p.Converged++
		}
	}
	return p, nil
}
