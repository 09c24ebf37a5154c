package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
)

func TestTickCountsWhileRunning(t *testing.T) {
	ctrl, _, _ := newTestController(t, &scriptedGenerator{})
	require.NoError(t, ctrl.OpenDay(context.Background(), domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))

	ctrl.tick(ctrl.timerStop)
	ctrl.tick(ctrl.timerStop)
	ctrl.tick(ctrl.timerStop)
	assert.Equal(t, 3, ctrl.Snapshot().Elapsed)
}

func TestNoTickLandsAfterStop(t *testing.T) {
	ctrl, _, _ := newTestController(t, &scriptedGenerator{})
	require.NoError(t, ctrl.OpenDay(context.Background(), domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))

	stale := ctrl.timerStop
	ctrl.tick(stale)
	ctrl.CloseSheet()

	// A tick that raced the stop must be dropped: its stop channel is
	// no longer the live one.
	ctrl.tick(stale)
	assert.Equal(t, 1, ctrl.Snapshot().Elapsed)
}

func TestRestartReplacesTimerIdentity(t *testing.T) {
	ctrl, _, _ := newTestController(t, &scriptedGenerator{})
	require.NoError(t, ctrl.OpenDay(context.Background(), domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))

	first := ctrl.timerStop
	ctrl.tick(first)
	ctrl.CloseSheet()

	require.NoError(t, ctrl.StartExercise("Crucifixo", 1))
	second := ctrl.timerStop
	assert.NotEqual(t, first, second)
	assert.Zero(t, ctrl.Snapshot().Elapsed)

	// The old execution's timer identity cannot touch the new counter.
	ctrl.tick(first)
	assert.Zero(t, ctrl.Snapshot().Elapsed)
	ctrl.tick(second)
	assert.Equal(t, 1, ctrl.Snapshot().Elapsed)
}

func TestCloseStopsTimerForGood(t *testing.T) {
	ctrl, _, _ := newTestController(t, &scriptedGenerator{})
	require.NoError(t, ctrl.OpenDay(context.Background(), domain.Seg))
	require.NoError(t, ctrl.StartExercise("Supino", 0))

	stale := ctrl.timerStop
	ctrl.Close()
	assert.False(t, ctrl.Snapshot().TimerRunning)
	ctrl.tick(stale)
	assert.Zero(t, ctrl.Snapshot().Elapsed)

	assert.ErrorIs(t, ctrl.StartExercise("Supino", 0), ErrControllerClosed)
}
