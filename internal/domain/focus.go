package domain

import "strings"

// FocusKey classifies a day's free-text focus label into one of the
// known cover-image categories.
type FocusKey string

const (
	FocusChest     FocusKey = "chest"
	FocusBack      FocusKey = "back"
	FocusLegs      FocusKey = "legs"
	FocusShoulders FocusKey = "shoulders"
	FocusArms      FocusKey = "arms"
	FocusAbs       FocusKey = "abs"
	FocusCardio    FocusKey = "cardio"
	FocusDefault   FocusKey = "default"
)

// focusKeywords maps substrings of the (lowercased) focus label to a
// classification. First match in this order wins.
var focusKeywords = []struct {
	needles []string
	key     FocusKey
}{
	{[]string{"peito"}, FocusChest},
	{[]string{"costas", "dorsal"}, FocusBack},
	{[]string{"perna", "agacha"}, FocusLegs},
	{[]string{"ombro", "deltoide"}, FocusShoulders},
	{[]string{"braco", "braço", "biceps", "triceps"}, FocusArms},
	{[]string{"abdom", "abdô"}, FocusAbs},
	{[]string{"cardio"}, FocusCardio},
}

// ClassifyFocus maps a focus label to its cover-image category. Unknown
// or empty labels get the default category.
func ClassifyFocus(focus string) FocusKey {
	if focus == "" {
		return FocusDefault
	}
	lower := strings.ToLower(focus)
	for _, entry := range focusKeywords {
		for _, needle := range entry.needles {
			if strings.Contains(lower, needle) {
				return entry.key
			}
		}
	}
	return FocusDefault
}
