package domain

// ExperienceTier is the ordinal training maturity of a user.
type ExperienceTier int

const (
	TierBeginner     ExperienceTier = 0
	TierIntermediate ExperienceTier = 1
	TierElite        ExperienceTier = 2
)

// tierLabels are the PT-BR labels fed into generator prompts.
var tierLabels = []string{"Iniciante", "Intermediário", "Avançado"}

// Label returns the prompt label for the tier. Out-of-range values fall
// back to beginner rather than panicking on bad stored data.
func (t ExperienceTier) Label() string {
	if t < TierBeginner || t > TierElite {
		return tierLabels[TierBeginner]
	}
	return tierLabels[t]
}

// Profile is the single user-preferences-and-plan record, persisted as
// one document per user. Plan is nil until the user confirms a generated
// protocol; a plan under review lives only in session state.
type Profile struct {
	Name       string         `bson:"name" json:"name"`
	Weight     float64        `bson:"weight" json:"weight"`
	Height     float64        `bson:"height" json:"height"`
	Age        int            `bson:"age" json:"age"`
	Activity   float64        `bson:"activity" json:"activity"`
	Maturity   ExperienceTier `bson:"maturity" json:"maturity"`
	Days       []Weekday      `bson:"days" json:"days"`
	Modules    []string       `bson:"modules" json:"modules"`
	Priorities []string       `bson:"priorities" json:"priorities"`
	CustomGoal string         `bson:"customGoal" json:"customGoal"`
	Plan       Plan           `bson:"plan,omitempty" json:"plan,omitempty"`
}

// DefaultProfile returns the client-side defaults used when no record
// exists yet (or the backend is unreachable on load).
func DefaultProfile() *Profile {
	return &Profile{
		Weight:     70,
		Height:     175,
		Age:        25,
		Activity:   1.2,
		Maturity:   TierBeginner,
		Days:       []Weekday{},
		Modules:    []string{},
		Priorities: []string{},
	}
}
