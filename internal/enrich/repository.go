package enrich

import (
	"context"
	"sync"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=enrich

type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	UpdateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	RecordResolution(ctx context.Context, runID string, res Resolution) error
}

// MemoryRepo keeps runs in process. Used when no database is configured.
type MemoryRepo struct {
	mu          sync.RWMutex
	runs        map[string]Run
	resolutions map[string][]Resolution
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		runs:        make(map[string]Run),
		resolutions: make(map[string][]Resolution),
	}
}

func (r *MemoryRepo) CreateRun(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = *run
	return nil
}

func (r *MemoryRepo) UpdateRun(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[run.ID]; !ok {
		return ErrRunNotFound
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *MemoryRepo) GetRun(ctx context.Context, id string) (*Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return &run, nil
}

func (r *MemoryRepo) RecordResolution(ctx context.Context, runID string, res Resolution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolutions[runID] = append(r.resolutions[runID], res)
	return nil
}

// Resolutions returns what was recorded for runID.
func (r *MemoryRepo) Resolutions(runID string) []Resolution {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Resolution(nil), r.resolutions[runID]...)
}
