package repository

import (
	"context"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
)

// Error constants for the repository layer. Callers branch on these with
// errors.Is rather than inspecting driver errors.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ProfileRepository persists the single preferences-and-plan record per
// user. Save has merge/upsert semantics: fields absent from the given
// profile are left untouched in the stored record.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Save(ctx context.Context, userID string, profile *domain.Profile) error
}

// LogRepository persists the user's append-only execution logs and
// daily reports. Listing by date returns logs in no particular order;
// callers project them to a set of exercise names. Reports come back
// newest first.
type LogRepository interface {
	AppendExecutionLog(ctx context.Context, userID string, log *domain.ExecutionLog) error
	ListExecutionLogsByDate(ctx context.Context, userID string, date string) ([]domain.ExecutionLog, error)
	AppendDailyReport(ctx context.Context, userID string, report *domain.DailyReport) error
	ListDailyReports(ctx context.Context, userID string) ([]domain.DailyReport, error)
}

// UserRepository stores account records for the auth layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
