package domain

import "time"

// DateLayout is the ISO calendar-day format used on logs and reports.
const DateLayout = "2006-01-02"

// Today formats a point in time as the calendar-day key logs are
// filtered on.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// ExecutionSet is one logged set of an exercise. Weight and reps are
// kept as free-form numeric text exactly as entered. RPE is declared for
// forward compatibility; no current flow populates it.
type ExecutionSet struct {
	Set    int    `bson:"set" json:"set"`
	Weight string `bson:"weight" json:"weight"`
	Reps   string `bson:"reps" json:"reps"`
	RPE    string `bson:"rpe" json:"rpe"`
}

// ExecutionLog records one completed exercise instance. Logs are
// append-only and never mutated after creation; "completed today" is
// always derived from them, never stored on the plan.
type ExecutionLog struct {
	ID        string         `bson:"_id,omitempty" json:"id,omitempty"`
	Date      string         `bson:"date" json:"date"`
	Exercise  string         `bson:"exercise" json:"exercise"`
	Sets      []ExecutionSet `bson:"sets" json:"sets"`
	Notes     string         `bson:"notes" json:"notes"`
	Timestamp int64          `bson:"timestamp" json:"timestamp"`
}
