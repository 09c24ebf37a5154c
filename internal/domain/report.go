package domain

// DailyReport is the generated debrief for one "finish day" action.
// Append-only; the history view lists them newest first.
type DailyReport struct {
	ID        string `bson:"_id,omitempty" json:"id,omitempty"`
	Date      string `bson:"date" json:"date"`
	Analysis  string `bson:"analysis" json:"analysis"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}
