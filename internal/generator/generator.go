// Package generator wraps the external generative-language service that
// produces weekly plans, single-exercise substitutions and end-of-day
// debriefs. The service is a collaborator, not part of this system: any
// malformed or empty response is a failure signalled to the caller,
// never a partial result.
package generator

import (
	"context"
	"errors"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
)

var (
	ErrGenerationFailed = errors.New("plan generation failed")
	ErrSwapFailed       = errors.New("exercise swap failed")
)

// GeneratedPlan is a freshly generated weekly plan plus the short
// analysis text shown on the review sheet. It lives only in session
// state until the user confirms it.
type GeneratedPlan struct {
	Plan     domain.Plan
	Analysis string
}

// PlanGenerator is the consumed contract of the generative service.
type PlanGenerator interface {
	// GeneratePlan builds a weekly plan from the profile parameters.
	// Transport errors, malformed JSON and shape mismatches all come
	// back as errors; the caller surfaces "generation failed, try again".
	GeneratePlan(ctx context.Context, profile *domain.Profile) (*GeneratedPlan, error)

	// SwapExercise asks for a single substitute exercise name given a
	// free-text reason. An empty reply is a failure.
	SwapExercise(ctx context.Context, exercise, reason string) (string, error)

	// SummarizeDay produces the debrief text over one day's logs. It
	// never fails the caller's flow: on any internal error it returns a
	// static fallback sentence instead.
	SummarizeDay(ctx context.Context, logs []domain.ExecutionLog, userName string) string
}
