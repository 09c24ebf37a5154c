package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/backend"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/generator"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository"
)

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	saves    int
	failSave bool
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]domain.Profile{}}
}

func (r *fakeProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) Save(ctx context.Context, userID string, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.failSave {
		return errors.New("save failed")
	}
	stored := *profile
	stored.Plan = profile.Plan.Clone()
	r.profiles[userID] = stored
	return nil
}

// fakeLogRepo is an in-memory LogRepository.
type fakeLogRepo struct {
	mu      sync.Mutex
	logs    map[string][]domain.ExecutionLog
	reports map[string][]domain.DailyReport
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{
		logs:    map[string][]domain.ExecutionLog{},
		reports: map[string][]domain.DailyReport{},
	}
}

func (r *fakeLogRepo) AppendExecutionLog(ctx context.Context, userID string, log *domain.ExecutionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[userID] = append(r.logs[userID], *log)
	return nil
}

func (r *fakeLogRepo) ListExecutionLogsByDate(ctx context.Context, userID string, date string) ([]domain.ExecutionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ExecutionLog
	for _, entry := range r.logs[userID] {
		if entry.Date == date {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) AppendDailyReport(ctx context.Context, userID string, report *domain.DailyReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[userID] = append(r.reports[userID], *report)
	return nil
}

func (r *fakeLogRepo) ListDailyReports(ctx context.Context, userID string) ([]domain.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DailyReport(nil), r.reports[userID]...), nil
}

// scriptedGenerator returns canned results.
type scriptedGenerator struct {
	plan        *generator.GeneratedPlan
	planErr     error
	swapResult  string
	swapErr     error
	summary     string
	summarized  int
	swapCalls   int
	lastSwapped string
}

func (g *scriptedGenerator) GeneratePlan(ctx context.Context, profile *domain.Profile) (*generator.GeneratedPlan, error) {
	if g.planErr != nil {
		return nil, g.planErr
	}
	return g.plan, nil
}

func (g *scriptedGenerator) SwapExercise(ctx context.Context, exercise, reason string) (string, error) {
	g.swapCalls++
	g.lastSwapped = exercise
	if g.swapErr != nil {
		return "", g.swapErr
	}
	return g.swapResult, nil
}

func (g *scriptedGenerator) SummarizeDay(ctx context.Context, logs []domain.ExecutionLog, userName string) string {
	g.summarized++
	if g.summary != "" {
		return g.summary
	}
	return "Protocolo executado."
}

const testUser = "user-1"

func testPlan() domain.Plan {
	return domain.Plan{
		domain.Seg: {Focus: "Peito", Exercises: []string{"Supino", "Crucifixo"}},
		domain.Qua: {Focus: "Costas", Exercises: []string{"Barra Fixa", "Remada"}},
	}
}

func newTestController(t *testing.T, gen generator.PlanGenerator) (*Controller, *fakeProfileRepo, *fakeLogRepo) {
	t.Helper()
	profiles := newFakeProfileRepo()
	logs := newFakeLogRepo()
	profiles.profiles[testUser] = domain.Profile{
		Name:     "Alex",
		Days:     []domain.Weekday{domain.Seg, domain.Qua},
		Maturity: domain.TierIntermediate,
		Plan:     testPlan(),
	}

	be := &backend.Context{Profiles: profiles, Logs: logs}
	ctrl := NewController(context.Background(), testUser, be, gen)
	t.Cleanup(ctrl.Close)
	return ctrl, profiles, logs
}

func TestNewControllerDefaultsWhenProfileMissing(t *testing.T) {
	be := &backend.Context{Profiles: newFakeProfileRepo(), Logs: newFakeLogRepo()}
	ctrl := NewController(context.Background(), "nobody", be, &scriptedGenerator{})
	defer ctrl.Close()

	profile := ctrl.Profile()
	assert.Equal(t, 70.0, profile.Weight)
	assert.Equal(t, domain.TierBeginner, profile.Maturity)
	assert.Nil(t, profile.Plan)

	snap := ctrl.Snapshot()
	assert.Equal(t, ViewHome, snap.View)
	assert.Equal(t, SheetNone, snap.Sheet)
}

func TestStartExerciseAlwaysResetsExecutionState(t *testing.T) {
	ctrl, _, _ := newTestController(t, &scriptedGenerator{})
	ctx := context.Background()

	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))

	// Leave leftover state behind.
	require.NoError(t, ctrl.UpdateExecution([]domain.ExecutionSet{{Set: 1, Weight: "60", Reps: "10"}}, "pesado"))
	ctrl.tick(ctrl.timerStop)
	ctrl.tick(ctrl.timerStop)
	require.NoError(t, ctrl.SaveExecution(ctx))

	// Starting the next exercise must begin from zero.
	require.NoError(t, ctrl.StartExercise("Crucifixo", 1))
	snap := ctrl.Snapshot()
	assert.Equal(t, SheetExecution, snap.Sheet)
	assert.Empty(t, snap.Sets)
	assert.Empty(t, snap.Notes)
	assert.Zero(t, snap.Elapsed)
	assert.True(t, snap.TimerRunning)
}

func TestCompletedTodayDerivedFromLogs(t *testing.T) {
	ctrl, _, logs := newTestController(t, &scriptedGenerator{})
	ctx := context.Background()
	today := domain.Today(time.Now())

	// A log from a previous day must not count.
	require.NoError(t, logs.AppendExecutionLog(ctx, testUser, &domain.ExecutionLog{
		Date: "2020-01-01", Exercise: "Supino",
	}))

	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))
	assert.Empty(t, ctrl.Snapshot().CompletedToday)

	require.NoError(t, ctrl.StartExercise("Supino", 0))
	require.NoError(t, ctrl.UpdateExecution([]domain.ExecutionSet{{Set: 1, Weight: "60", Reps: "10"}}, ""))
	require.NoError(t, ctrl.SaveExecution(ctx))

	// The save must reflect immediately.
	assert.True(t, ctrl.CompletedToday("Supino"))
	assert.False(t, ctrl.CompletedToday("Crucifixo"))

	// Reopening a day recomputes from the store, not from cache.
	require.NoError(t, ctrl.OpenDay(ctx, domain.Qua))
	assert.Equal(t, []string{"Supino"}, ctrl.Snapshot().CompletedToday)

	stored, err := logs.ListExecutionLogsByDate(ctx, testUser, today)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Supino", stored[0].Exercise)
	assert.Equal(t, "60", stored[0].Sets[0].Weight)
}

func TestConfirmPlanIsIdempotent(t *testing.T) {
	gen := &scriptedGenerator{plan: &generator.GeneratedPlan{Plan: testPlan(), Analysis: "Sólido."}}
	ctrl, profiles, _ := newTestController(t, gen)
	ctx := context.Background()

	require.NoError(t, ctrl.GeneratePlan(ctx))
	require.Equal(t, SheetReview, ctrl.Snapshot().Sheet)

	require.NoError(t, ctrl.ConfirmPlan(ctx))
	first := profiles.profiles[testUser].Plan

	snap := ctrl.Snapshot()
	assert.Equal(t, SheetNone, snap.Sheet)
	assert.Equal(t, ViewHome, snap.View)

	require.NoError(t, ctrl.ConfirmPlan(ctx))
	second := profiles.profiles[testUser].Plan
	assert.Equal(t, first, second)
}

func TestGenerationFailureLeavesStateUntouched(t *testing.T) {
	gen := &scriptedGenerator{planErr: generator.ErrGenerationFailed}
	ctrl, profiles, _ := newTestController(t, gen)
	ctx := context.Background()

	ctrl.SwitchView(ViewConfigure)
	before := profiles.profiles[testUser]
	saves := profiles.saves

	err := ctrl.GeneratePlan(ctx)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	snap := ctrl.Snapshot()
	assert.Equal(t, SheetNone, snap.Sheet)
	assert.Equal(t, ViewConfigure, snap.View)
	assert.Nil(t, snap.ReviewPlan)
	assert.Equal(t, before, profiles.profiles[testUser])
	assert.Equal(t, saves, profiles.saves)
}

func TestSwapMutatesExactlyOneSlot(t *testing.T) {
	gen := &scriptedGenerator{
		plan:       &generator.GeneratedPlan{Plan: testPlan(), Analysis: "ok"},
		swapResult: "Supino Inclinado",
	}
	ctrl, _, _ := newTestController(t, gen)
	ctx := context.Background()

	require.NoError(t, ctrl.GeneratePlan(ctx))
	require.NoError(t, ctrl.SelectReviewDay(domain.Seg))

	require.NoError(t, ctrl.RequestSwap(ctx, 1, "Dor no ombro"))
	assert.Equal(t, "Crucifixo", gen.lastSwapped)

	reviewed := ctrl.Snapshot().ReviewPlan
	assert.Equal(t, []string{"Supino", "Supino Inclinado"}, reviewed[domain.Seg].Exercises)
	// The other day is untouched.
	assert.Equal(t, testPlan()[domain.Qua], reviewed[domain.Qua])
	// The live plan is untouched.
	assert.Equal(t, testPlan(), ctrl.Profile().Plan)
}

func TestFailedSwapLeavesReviewedPlanIdentical(t *testing.T) {
	gen := &scriptedGenerator{
		plan:    &generator.GeneratedPlan{Plan: testPlan(), Analysis: "ok"},
		swapErr: generator.ErrSwapFailed,
	}
	ctrl, _, _ := newTestController(t, gen)
	ctx := context.Background()

	require.NoError(t, ctrl.GeneratePlan(ctx))
	require.NoError(t, ctrl.SelectReviewDay(domain.Seg))
	before := ctrl.Snapshot().ReviewPlan

	err := ctrl.RequestSwap(ctx, 0, "Sem equipamento")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, before, ctrl.Snapshot().ReviewPlan)
}

func TestSwapIndexOutOfRange(t *testing.T) {
	gen := &scriptedGenerator{plan: &generator.GeneratedPlan{Plan: testPlan(), Analysis: "ok"}}
	ctrl, _, _ := newTestController(t, gen)
	ctx := context.Background()

	require.NoError(t, ctrl.GeneratePlan(ctx))
	require.NoError(t, ctrl.SelectReviewDay(domain.Seg))

	assert.ErrorIs(t, ctrl.RequestSwap(ctx, 5, "x"), ErrInvalidSwapIndex)
	assert.ErrorIs(t, ctrl.RequestSwap(ctx, -1, "x"), ErrInvalidSwapIndex)
	assert.Zero(t, gen.swapCalls)
}

func TestFinishDayWithNothingLogged(t *testing.T) {
	gen := &scriptedGenerator{}
	ctrl, _, logs := newTestController(t, gen)
	ctx := context.Background()

	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))

	report, err := ctrl.FinishDay(ctx)
	assert.ErrorIs(t, err, ErrNothingLogged)
	assert.Nil(t, report)
	assert.Zero(t, gen.summarized)

	// The day sheet stays open and no report was written.
	assert.Equal(t, SheetDay, ctrl.Snapshot().Sheet)
	reports, _ := logs.ListDailyReports(ctx, testUser)
	assert.Empty(t, reports)
}

func TestFullDayScenario(t *testing.T) {
	// Profile has days [Seg, Qua]; opening Seg shows two exercises,
	// logging Supino completes only Supino, finishing the day yields
	// exactly one report dated today.
	gen := &scriptedGenerator{summary: "Execução de alto nível. Mantenha o padrão."}
	ctrl, _, logs := newTestController(t, gen)
	ctx := context.Background()

	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))
	day := ctrl.Profile().Plan[domain.Seg]
	assert.Len(t, day.Exercises, 2)
	assert.Empty(t, ctrl.Snapshot().CompletedToday)

	require.NoError(t, ctrl.StartExercise("Supino", 0))
	require.NoError(t, ctrl.UpdateExecution([]domain.ExecutionSet{{Set: 1, Weight: "60", Reps: "10"}}, ""))
	require.NoError(t, ctrl.SaveExecution(ctx))
	assert.True(t, ctrl.CompletedToday("Supino"))
	assert.False(t, ctrl.CompletedToday("Crucifixo"))

	report, err := ctrl.FinishDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Today(time.Now()), report.Date)
	assert.Equal(t, "Execução de alto nível. Mantenha o padrão.", report.Analysis)

	stored, _ := logs.ListDailyReports(ctx, testUser)
	require.Len(t, stored, 1)
	assert.Equal(t, SheetNone, ctrl.Snapshot().Sheet)
}

func TestCloseExecutionDiscardsBufferAndStopsTimer(t *testing.T) {
	ctrl, _, logs := newTestController(t, &scriptedGenerator{})
	ctx := context.Background()

	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))
	require.NoError(t, ctrl.UpdateExecution([]domain.ExecutionSet{{Set: 1, Weight: "100", Reps: "5"}}, "descartar"))
	ctrl.tick(ctrl.timerStop)

	ctrl.CloseSheet()
	snap := ctrl.Snapshot()
	assert.Equal(t, SheetDay, snap.Sheet)
	assert.False(t, snap.TimerRunning)
	assert.Empty(t, snap.Sets)
	assert.Empty(t, snap.Notes)
	// Stopped, not reset.
	assert.Equal(t, 1, snap.Elapsed)

	// Nothing was persisted.
	entries, _ := logs.ListExecutionLogsByDate(ctx, testUser, domain.Today(time.Now()))
	assert.Empty(t, entries)
}

func TestCloseFromOtherSheetsReturnsToNone(t *testing.T) {
	ctrl, _, _ := newTestController(t, &scriptedGenerator{})
	ctx := context.Background()

	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))
	ctrl.CloseSheet()
	assert.Equal(t, SheetNone, ctrl.Snapshot().Sheet)

	ctrl.OpenReport("Relatório antigo.")
	assert.Equal(t, SheetDebrief, ctrl.Snapshot().Sheet)
	ctrl.CloseSheet()
	assert.Equal(t, SheetNone, ctrl.Snapshot().Sheet)
}

func TestOpenDayRequiresConfirmedPlan(t *testing.T) {
	be := &backend.Context{Profiles: newFakeProfileRepo(), Logs: newFakeLogRepo()}
	ctrl := NewController(context.Background(), "nobody", be, &scriptedGenerator{})
	defer ctrl.Close()

	assert.ErrorIs(t, ctrl.OpenDay(context.Background(), domain.Seg), ErrNoPlanOnProfile)
}

func TestStartExerciseRequiresDaySheet(t *testing.T) {
	ctrl, _, _ := newTestController(t, &scriptedGenerator{})
	assert.ErrorIs(t, ctrl.StartExercise("Supino", 0), ErrWrongSheet)
}

func TestSaveFailureIsOptimistic(t *testing.T) {
	ctrl, profiles, _ := newTestController(t, &scriptedGenerator{})
	ctx := context.Background()
	profiles.failSave = true

	updated := ctrl.Profile()
	updated.CustomGoal = "Hipertrofia"
	ctrl.UpdateProfile(ctx, &updated)

	// The in-memory state keeps the optimistic update.
	assert.Equal(t, "Hipertrofia", ctrl.Profile().CustomGoal)
}

func TestOpenDayBlockedDuringExecution(t *testing.T) {
	ctrl, _, _ := newTestController(t, &scriptedGenerator{})
	ctx := context.Background()

	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))

	assert.ErrorIs(t, ctrl.OpenDay(ctx, domain.Qua), ErrWrongSheet)

	// The execution stays exactly where it was.
	snap := ctrl.Snapshot()
	assert.Equal(t, SheetExecution, snap.Sheet)
	assert.Equal(t, domain.Seg, snap.SelectedDay)
	assert.Equal(t, &ActiveExercise{Name: "Supino", Index: 0}, snap.Active)
	assert.True(t, snap.TimerRunning)
}

func TestFinishDayRequiresDaySheet(t *testing.T) {
	gen := &scriptedGenerator{}
	ctrl, _, logs := newTestController(t, gen)
	ctx := context.Background()

	// Not from no sheet.
	_, err := ctrl.FinishDay(ctx)
	assert.ErrorIs(t, err, ErrWrongSheet)

	// Not from an in-progress execution either.
	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))
	_, err = ctrl.FinishDay(ctx)
	assert.ErrorIs(t, err, ErrWrongSheet)

	snap := ctrl.Snapshot()
	assert.Equal(t, SheetExecution, snap.Sheet)
	assert.True(t, snap.TimerRunning)
	assert.Zero(t, gen.summarized)
	reports, _ := logs.ListDailyReports(ctx, testUser)
	assert.Empty(t, reports)
}

func TestGeneratePlanBlockedDuringExecution(t *testing.T) {
	gen := &scriptedGenerator{plan: &generator.GeneratedPlan{Plan: testPlan(), Analysis: "ok"}}
	ctrl, _, _ := newTestController(t, gen)
	ctx := context.Background()

	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))

	assert.ErrorIs(t, ctrl.GeneratePlan(ctx), ErrWrongSheet)
	snap := ctrl.Snapshot()
	assert.Equal(t, SheetExecution, snap.Sheet)
	assert.Nil(t, snap.ReviewPlan)
	assert.True(t, snap.TimerRunning)
}

func TestLateGeneratedPlanDroppedDuringExecution(t *testing.T) {
	ctrl, _, _ := newTestController(t, &scriptedGenerator{})
	ctx := context.Background()

	require.NoError(t, ctrl.OpenDay(ctx, domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))

	ctrl.PlanGenerated(testPlan(), "atrasado")
	snap := ctrl.Snapshot()
	assert.Equal(t, SheetExecution, snap.Sheet)
	assert.Nil(t, snap.ReviewPlan)
}
