package domain

// Day is one weekday's slot in a Plan: a free-text focus label and the
// ordered exercise list. Order is execution order and duplicates are
// allowed, so this stays a plain slice.
type Day struct {
	Focus     string   `bson:"foco" json:"foco"`
	Exercises []string `bson:"exercicios" json:"exercicios"`
}

// Plan maps weekday labels to their training day. Keys are always a
// subset of the seven Weekday constants; generator output is validated
// against that set before a Plan is ever constructed.
type Plan map[Weekday]Day

// Clone returns a deep copy of the plan. Exercise swaps mutate a single
// slot of the transient reviewed plan, so the session layer always works
// on its own copy.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	out := make(Plan, len(p))
	for day, d := range p {
		exercises := make([]string, len(d.Exercises))
		copy(exercises, d.Exercises)
		out[day] = Day{Focus: d.Focus, Exercises: exercises}
	}
	return out
}

// Days returns the plan's weekdays in canonical display order.
func (p Plan) Days() []Weekday {
	keys := make([]Weekday, 0, len(p))
	for day := range p {
		keys = append(keys, day)
	}
	return SortWeekdays(keys)
}
