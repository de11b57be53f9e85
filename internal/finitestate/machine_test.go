package finitestate

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	handler := slog.NewTextHandler(os.Stdout, nil)
	machine, err := New(handler)
	require.NoError(t, err)
	require.NotNil(t, machine)
	assert.Equal(t, StatusNew, machine.GetState())

	for _, state := range []string{StatusBooting, StatusRunning, StatusStopping, StatusStopped} {
		require.NoError(t, machine.Transition(state), "Failed to transition to %s", state)
	}
	assert.Equal(t, StatusStopped, machine.GetState())
}

func TestRunnerFSM_GetStateChan(t *testing.T) {
	t.Parallel()

	machine, err := New(slog.NewTextHandler(os.Stdout, nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	ch := machine.GetStateChan(ctx)
	select {
	case state := <-ch:
		assert.Equal(t, StatusNew, state)
	case <-time.After(time.Second):
		t.Fatal("initial state not delivered")
	}

	require.NoError(t, machine.Transition(StatusBooting))
	select {
	case state := <-ch:
		assert.Equal(t, StatusBooting, state)
	case <-time.After(time.Second):
		t.Fatal("transition not delivered")
	}
}

func TestScriptMachine(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) Machine {
		t.Helper()
		machine, err := NewScriptMachine(slog.NewTextHandler(os.Stdout, nil))
		require.NoError(t, err)
		return machine
	}

	t.Run("starts in created", func(t *testing.T) {
		assert.Equal(t, ScriptCreated, setup(t).GetState())
	})

	t.Run("run pause resume abort", func(t *testing.T) {
		machine := setup(t)
		for _, state := range []string{ScriptRunning, ScriptPaused, ScriptRunning, ScriptAborting, ScriptAborted} {
			require.NoError(t, machine.Transition(state), "Failed to transition to %s", state)
		}
	})

	t.Run("abort before start", func(t *testing.T) {
		machine := setup(t)
		require.NoError(t, machine.Transition(ScriptAborting))
		require.NoError(t, machine.Transition(ScriptAborted))
	})

	t.Run("aborted is terminal", func(t *testing.T) {
		machine := setup(t)
		require.NoError(t, machine.Transition(ScriptAborting))
		require.NoError(t, machine.Transition(ScriptAborted))

		for _, state := range []string{ScriptCreated, ScriptRunning, ScriptPaused, ScriptAborting} {
			assert.Error(t, machine.Transition(state), "aborted must not move to %s", state)
		}
	})

	t.Run("created cannot pause", func(t *testing.T) {
		assert.False(t, setup(t).TransitionBool(ScriptPaused))
	})
}

func TestCompileMachine(t *testing.T) {
	t.Parallel()

	machine, err := NewCompileMachine(slog.NewTextHandler(os.Stdout, nil))
	require.NoError(t, err)
	assert.Equal(t, CompileIdle, machine.GetState())

	require.True(t, machine.TransitionBool(CompileCompiling))
	assert.False(t, machine.TransitionBool(CompileCompiling), "second compile must be rejected")

	require.NoError(t, machine.TransitionIfCurrentState(CompileCompiling, CompileIdle))
	assert.Equal(t, CompileIdle, machine.GetState())
}
