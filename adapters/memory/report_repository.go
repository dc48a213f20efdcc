package memory

import (
	"context"
	"sort"
	"sync"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/ports"
)

var _ ports.ReportRepository = (*ReportRepository)(nil)

// ReportRepository keeps pipeline reports in a map, used when no database is configured
type ReportRepository struct {
	reports map[core.RunID]*classification.PipelineReport
	mu      sync.RWMutex
}

// NewReportRepository creates an empty store
func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		reports: make(map[core.RunID]*classification.PipelineReport),
	}
}

func (s *ReportRepository) Save(ctx context.Context, report *classification.PipelineReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.ID] = report.Clone()
	return nil
}

func (s *ReportRepository) Get(ctx context.Context, id core.RunID) (*classification.PipelineReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, core.NewReportNotFoundError(id.String())
	}
	return report.Clone(), nil
}

// List returns reports newest first
func (s *ReportRepository) List(ctx context.Context, limit, offset int) ([]*classification.PipelineReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*classification.PipelineReport, 0, len(s.reports))
	for _, r := range s.reports {
		all = append(all, r.Clone())
	}
	// UUID v7 ids sort by creation time
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []*classification.PipelineReport{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
