package local

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository"
)

// localLogRepository keeps each collection as one ordered sequence per
// user and filters/sorts client-side.
type localLogRepository struct {
	store *Store
}

// NewLocalLogRepository returns a LogRepository backed by the store.
func NewLocalLogRepository(store *Store) repository.LogRepository {
	return &localLogRepository{store: store}
}

func (r *localLogRepository) AppendExecutionLog(ctx context.Context, userID string, log *domain.ExecutionLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	logs := map[string][]domain.ExecutionLog{}
	if err := r.store.read(logsKey, &logs); err != nil {
		return err
	}
	logs[userID] = append(logs[userID], *log)
	return r.store.write(logsKey, logs)
}

func (r *localLogRepository) ListExecutionLogsByDate(ctx context.Context, userID string, date string) ([]domain.ExecutionLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := map[string][]domain.ExecutionLog{}
	if err := r.store.read(logsKey, &logs); err != nil {
		return nil, err
	}

	matched := make([]domain.ExecutionLog, 0)
	for _, entry := range logs[userID] {
		if entry.Date == date {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (r *localLogRepository) AppendDailyReport(ctx context.Context, userID string, report *domain.DailyReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	reports := map[string][]domain.DailyReport{}
	if err := r.store.read(reportsKey, &reports); err != nil {
		return err
	}
	reports[userID] = append(reports[userID], *report)
	return r.store.write(reportsKey, reports)
}

func (r *localLogRepository) ListDailyReports(ctx context.Context, userID string) ([]domain.DailyReport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reports := map[string][]domain.DailyReport{}
	if err := r.store.read(reportsKey, &reports); err != nil {
		return nil, err
	}

	list := make([]domain.DailyReport, len(reports[userID]))
	copy(list, reports[userID])
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp > list[j].Timestamp
	})
	return list, nil
}
