package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository"
)

const (
	logCollectionName    = "logs"
	reportCollectionName = "daily_reports"
)

// executionLogDoc is the stored shape of a log record: the domain fields
// plus the owning user. The domain type itself stays backend-neutral.
type executionLogDoc struct {
	ID        string                `bson:"_id"`
	UserID    string                `bson:"userId"`
	Date      string                `bson:"date"`
	Exercise  string                `bson:"exercise"`
	Sets      []domain.ExecutionSet `bson:"sets"`
	Notes     string                `bson:"notes"`
	Timestamp int64                 `bson:"timestamp"`
}

func (d executionLogDoc) toDomain() domain.ExecutionLog {
	return domain.ExecutionLog{
		ID:        d.ID,
		Date:      d.Date,
		Exercise:  d.Exercise,
		Sets:      d.Sets,
		Notes:     d.Notes,
		Timestamp: d.Timestamp,
	}
}

type dailyReportDoc struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"userId"`
	Date      string `bson:"date"`
	Analysis  string `bson:"analysis"`
	Timestamp int64  `bson:"timestamp"`
}

func (d dailyReportDoc) toDomain() domain.DailyReport {
	return domain.DailyReport{
		ID:        d.ID,
		Date:      d.Date,
		Analysis:  d.Analysis,
		Timestamp: d.Timestamp,
	}
}

// mongoLogRepository implements repository.LogRepository.
type mongoLogRepository struct {
	logs    *mongo.Collection
	reports *mongo.Collection
}

// NewMongoLogRepository creates a new instance of mongoLogRepository.
func NewMongoLogRepository(db *mongo.Database) repository.LogRepository {
	return &mongoLogRepository{
		logs:    db.Collection(logCollectionName),
		reports: db.Collection(reportCollectionName),
	}
}

// AppendExecutionLog inserts one immutable log record.
func (r *mongoLogRepository) AppendExecutionLog(ctx context.Context, userID string, log *domain.ExecutionLog) error {
	if log.ID == "" {
		log.ID = primitive.NewObjectID().Hex()
	}
	doc := executionLogDoc{
		ID:        log.ID,
		UserID:    userID,
		Date:      log.Date,
		Exercise:  log.Exercise,
		Sets:      log.Sets,
		Notes:     log.Notes,
		Timestamp: log.Timestamp,
	}
	_, err := r.logs.InsertOne(ctx, doc)
	return err
}

// ListExecutionLogsByDate returns all of the user's logs for one
// calendar day. Order is irrelevant to callers.
func (r *mongoLogRepository) ListExecutionLogsByDate(ctx context.Context, userID string, date string) ([]domain.ExecutionLog, error) {
	filter := bson.M{"userId": userID, "date": date}

	cursor, err := r.logs.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []executionLogDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	logs := make([]domain.ExecutionLog, 0, len(docs))
	for _, d := range docs {
		logs = append(logs, d.toDomain())
	}
	return logs, nil
}

// AppendDailyReport inserts one immutable report record.
func (r *mongoLogRepository) AppendDailyReport(ctx context.Context, userID string, report *domain.DailyReport) error {
	if report.ID == "" {
		report.ID = primitive.NewObjectID().Hex()
	}
	doc := dailyReportDoc{
		ID:        report.ID,
		UserID:    userID,
		Date:      report.Date,
		Analysis:  report.Analysis,
		Timestamp: report.Timestamp,
	}
	_, err := r.reports.InsertOne(ctx, doc)
	return err
}

// ListDailyReports returns all of the user's reports, newest first.
func (r *mongoLogRepository) ListDailyReports(ctx context.Context, userID string) ([]domain.DailyReport, error) {
	filter := bson.M{"userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := r.reports.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []dailyReportDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	reports := make([]domain.DailyReport, 0, len(docs))
	for _, d := range docs {
		reports = append(reports, d.toDomain())
	}
	return reports, nil
}

// EnsureLogIndexes creates the indexes backing the per-user date filter
// and the report sort. Call this once during application startup.
func EnsureLogIndexes(ctx context.Context, db *mongo.Database) {
	logIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}},
	}
	reportIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	// Index creation failure is not fatal; queries fall back to scans.
	_, _ = db.Collection(logCollectionName).Indexes().CreateMany(ctx, logIndexes)
	_, _ = db.Collection(reportCollectionName).Indexes().CreateMany(ctx, reportIndexes)
}
