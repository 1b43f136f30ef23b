package background

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubnSanchz/interval-timer/internal/config"
	"github.com/RubnSanchz/interval-timer/internal/storage"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

func TestScheduledProjector_SchedulesTimeline(t *testing.T) {
	env := newTestEnv()
	p := NewScheduledProjector(env.deps())

	state := storage.StoredTimerState{Config: autoCfg, Snapshot: timer.Running(timer.PhaseRest, 2, 10), UpdatedAt: epoch}
	env.clock.Advance(4 * time.Second)
	require.NoError(t, p.Start(context.Background(), state))

	status := env.scheduler.displayedOfKind(KindStatus)
	require.Len(t, status, 1)
	assert.Equal(t, "Fase: Descanso - Tiempo restante: 00:06 - Set 2 / 3", status[0].Body)

	require.Len(t, env.scheduler.scheduled, 2)
	assert.Equal(t, 6*time.Second, env.scheduler.scheduled[0].after)
	assert.Equal(t, "Fase: Ejercicio - Tiempo restante: 00:30 - Set 3 / 3", env.scheduler.scheduled[0].n.Body)
	assert.Equal(t, 36*time.Second, env.scheduler.scheduled[1].after)
	assert.Equal(t, "Entreno completado", env.scheduler.scheduled[1].n.Title)
	assert.Equal(t, 3, p.ScheduledCount())
}

func TestScheduledProjector_RestartCancelsPrevious(t *testing.T) {
	env := newTestEnv()
	p := NewScheduledProjector(env.deps())
	state := storage.StoredTimerState{Config: autoCfg, Snapshot: timer.Reset(autoCfg), UpdatedAt: epoch}

	require.NoError(t, p.Start(context.Background(), state))
	first := p.ScheduledCount()
	require.NoError(t, p.Start(context.Background(), state))

	assert.Len(t, env.scheduler.cancelled, first)
	assert.Equal(t, first, env.scheduler.liveCount())

	p.Stop()
	assert.Equal(t, 0, env.scheduler.liveCount())
	assert.Equal(t, 0, p.ScheduledCount())
	assert.NotPanics(t, p.Stop)
}

func TestScheduledProjector_OnlyRunningIsProjected(t *testing.T) {
	env := newTestEnv()
	p := NewScheduledProjector(env.deps())

	for _, s := range []timer.Snapshot{timer.Paused(timer.PhaseExercise, 1, 5), timer.Done(3)} {
		require.NoError(t, p.Start(context.Background(), storage.StoredTimerState{Config: autoCfg, Snapshot: s, UpdatedAt: epoch}))
	}
	assert.Empty(t, env.scheduler.displayed)
	assert.Empty(t, env.scheduler.scheduled)
}

func TestScheduledProjector_WithoutPermission(t *testing.T) {
	env := newTestEnv()
	deps := env.deps()
	deps.Permission = StaticPermission(false)
	p := NewScheduledProjector(deps)

	require.NoError(t, p.Start(context.Background(), storage.StoredTimerState{Config: autoCfg, Snapshot: timer.Reset(autoCfg), UpdatedAt: epoch}))
	assert.Empty(t, env.scheduler.scheduled)
	assert.Contains(t, env.logs.String(), "not permitted")
}

func TestNewProjector_ResolvesMode(t *testing.T) {
	env := newTestEnv()

	assert.IsType(t, &PollingProjector{}, NewProjector(config.BackgroundAuto, Capabilities{LongLived: true}, env.deps()))
	assert.IsType(t, &ScheduledProjector{}, NewProjector(config.BackgroundAuto, Capabilities{}, env.deps()))
	assert.IsType(t, &ScheduledProjector{}, NewProjector(config.BackgroundScheduled, Capabilities{LongLived: true}, env.deps()))
	assert.IsType(t, &PollingProjector{}, NewProjector(config.BackgroundPolling, Capabilities{}, env.deps()))
}

func TestDeps_PanicsOnMissingCollaborator(t *testing.T) {
	env := newTestEnv()
	deps := env.deps()
	deps.Store = nil
	assert.Panics(t, func() { NewPollingProjector(deps) })
}
