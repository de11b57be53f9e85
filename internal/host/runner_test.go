package host

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/config"
	"github.com/atlanticdynamic/scripthook/internal/finitestate"
	"github.com/atlanticdynamic/scripthook/internal/input"
	"github.com/atlanticdynamic/scripthook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	runner     *Runner
	dir        string
	logs       *testutil.ThreadSafeBuffer
	transcript *testutil.ThreadSafeBuffer
	invoker    *testutil.MockInvoker
	overlay    *recordingOverlay
}

type recordingOverlay struct {
	frames []string
}

func (o *recordingOverlay) Draw(frame string) { o.frames = append(o.frames, frame) }

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		dir:        t.TempDir(),
		logs:       &testutil.ThreadSafeBuffer{},
		transcript: &testutil.ThreadSafeBuffer{},
		invoker:    &testutil.MockInvoker{},
		overlay:    &recordingOverlay{},
	}
	f.invoker.On("Invoke", mock.Anything, mock.Anything).Return(nil, nil)

	cfg := config.NewDefault()
	cfg.Host.ScriptsDir = f.dir
	cfg.Host.FrameInterval = config.FromDuration(5 * time.Millisecond)
	cfg.Console.Language = config.LanguageLua

	base := []Option{
		WithLogHandler(slog.NewTextHandler(f.logs, nil)),
		WithClipboard(&testutil.MemoryClipboard{}),
		WithInvoker(f.invoker),
		WithTranscript(f.transcript),
		WithOverlay(f.overlay),
	}
	r, err := NewRunner(cfg, append(base, opts...)...)
	require.NoError(t, err)
	f.runner = r
	return f
}

func (f *fixture) writeScript(t *testing.T, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(src), 0o644))
}

func press(r *Runner, key input.Key) {
	r.KeyEvent(input.KeyEvent{Key: key, Down: true})
	r.KeyEvent(input.KeyEvent{Key: key})
}

// settle runs frames until the console has printed every queued batch.
func settle(t *testing.T, r *Runner) {
	t.Helper()
	require.Eventually(t, func() bool {
		r.Frame(t.Context())
		return r.Console().PendingBatches() == 0 && !r.Console().Compiling()
	}, 5*time.Second, time.Millisecond)
}

func TestNewRunner(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := f.runner
	assert.Equal(t, "host.Runner", r.String())
	assert.Equal(t, finitestate.StatusNew, r.GetState())
	assert.False(t, r.IsRunning())
	assert.Equal(t, config.LanguageLua, r.Console().Compiler().Language())

	for _, name := range []string{"List", "Start", "Abort", "Pause", "Resume", "Reload", "ScriptLog", "Help", "Clear"} {
		_, err := r.Console().Commands().CommandHelp(name)
		assert.NoError(t, err, name)
	}
}

func TestNewRunner_NilConfig(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(nil, WithClipboard(&testutil.MemoryClipboard{}))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLanguage, r.Console().Compiler().Language())
}

func TestRunner_ReloadNotRunning(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.runner.Reload(t.Context())
	require.ErrorIs(t, err, ErrNotRunning)
}

func TestRunner_KeyRouting(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.writeScript(t, "keys.lua", `
function on_key_down(key) console.info("script saw {0}", key) end
`)
	r := f.runner
	_, err := r.loader.Load(t.Context())
	require.NoError(t, err)

	// Closed console: keys reach the scripts.
	press(r, input.KeyB)
	r.Frame(t.Context())
	r.Frame(t.Context())
	assert.Contains(t, f.transcript.String(), "script saw B")

	// The toggle key opens the console, which then swallows typing.
	press(r, input.KeyF4)
	press(r, input.KeyA)
	r.Frame(t.Context())
	assert.True(t, r.Console().IsOpen())
	assert.Equal(t, "a", r.Console().Input())
	assert.NotContains(t, f.transcript.String(), "script saw A")
	require.NotEmpty(t, f.overlay.frames)
	assert.Contains(t, f.overlay.frames[len(f.overlay.frames)-1], "$>")

	// While open the console blocks game controls every frame.
	f.invoker.AssertCalled(t, "Invoke", NativeDisableAllControlActions, []any{0})

	press(r, input.KeyF4)
	r.Frame(t.Context())
	assert.False(t, r.Console().IsOpen())
}

func TestRunner_KeyBufferOverflow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for range keyBufferSize + 1 {
		f.runner.KeyEvent(input.KeyEvent{Key: input.KeyA, Down: true})
	}
	assert.Contains(t, f.logs.String(), "Key buffer full")
}

func TestRunner_ExecuteCommands(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.writeScript(t, "worker.lua", "function on_tick() end")
	r := f.runner
	_, err := r.loader.Load(t.Context())
	require.NoError(t, err)

	r.Execute("List()")
	settle(t, r)
	assert.Contains(t, f.transcript.String(), "worker")
	assert.Contains(t, f.transcript.String(), "running")
	assert.Contains(t, f.transcript.String(), "worker.lua")

	r.Execute(`Pause("worker")`)
	settle(t, r)
	script, err := r.Scheduler().Lookup("worker")
	require.NoError(t, err)
	assert.True(t, script.IsPaused())
	assert.Contains(t, f.transcript.String(), "[Return Value]: paused")

	r.Execute(`ScriptLog("worker")`)
	settle(t, r)
	assert.Contains(t, f.transcript.String(), "Started script worker.")
	records, err := r.Logs().Records("worker")
	require.NoError(t, err)
	assert.NotEmpty(t, records)

	r.Execute(`Abort("nobody")`)
	settle(t, r)
	assert.Contains(t, f.transcript.String(), "[Exception]: script not found")
}

func TestRunner_ExecuteExpression(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := f.runner

	r.Execute("1 + 2")
	r.Execute("print('hello')")
	require.Eventually(t, func() bool {
		r.Frame(t.Context())
		out := f.transcript.String()
		return strings.Contains(out, "[Return Value]: 3") && strings.Contains(out, "hello")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, r.Console().History().Len())
}

func TestRunner_RunReloadStop(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.writeScript(t, "hello.lua", `
console.info("loaded")
function on_aborted() console.warn("aborted") end
`)
	r := f.runner

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		return r.IsRunning() && f.transcript.Count("loaded") == 1
	}, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, r.Reload(ctx))
	require.Eventually(t, func() bool {
		out := f.transcript.String()
		return strings.Count(out, "loaded") == 2 && strings.Contains(out, "aborted")
	}, 5*time.Second, 5*time.Millisecond)
	assert.Eventually(t, r.IsRunning, time.Second, 5*time.Millisecond)

	r.Stop()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.Equal(t, finitestate.StatusStopped, r.GetState())
	assert.Zero(t, r.Scheduler().Len())
}

func TestRunner_StopReleasesReloadWaiters(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := f.runner
	// No frame runs before Stop, so only shutdown can answer the reload.
	r.cfg.Host.FrameInterval = config.FromDuration(time.Hour)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()
	require.Eventually(t, r.IsRunning, 5*time.Second, 5*time.Millisecond)

	reloadErr := make(chan error, 1)
	go func() { reloadErr <- r.Reload(t.Context()) }()
	require.Eventually(t, func() bool {
		r.reloadMu.Lock()
		defer r.reloadMu.Unlock()
		return len(r.reloadWaiters) == 1
	}, 5*time.Second, time.Millisecond)

	r.Stop()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}

	select {
	case err := <-reloadErr:
		require.ErrorIs(t, err, ErrNotRunning)
	case <-time.After(2 * time.Second):
		t.Fatal("Reload still blocked after Run returned")
	}
	assert.Equal(t, finitestate.StatusStopped, r.GetState())
}

func TestRunner_ReloadKeyFailureIsLogged(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	press(f.runner, input.KeyInsert)
	f.runner.Frame(t.Context())

	logs := f.logs.String()
	assert.Contains(t, logs, "level=WARN msg=\"Reload skipped\"")
	assert.Contains(t, logs, "level=WARN msg=\"Reload failed\"")
	assert.Contains(t, logs, ErrNotRunning.Error())
}

func TestRunner_ReloadKeyAndHistorySurvive(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.writeScript(t, "hello.lua", `console.info("loaded")`)
	r := f.runner

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()
	require.Eventually(t, func() bool {
		return f.transcript.Count("loaded") == 1
	}, 5*time.Second, 5*time.Millisecond)

	r.Execute("List()")
	press(r, input.KeyInsert)
	require.Eventually(t, func() bool {
		return f.transcript.Count("loaded") == 2
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"List()"}, r.Console().History().Entries())
}

func TestConsoleWriter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	w := newConsoleWriter(f.runner.Console())
	n, err := w.Write([]byte("one\r\ntwo\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	f.runner.Console().Tick(t.Context())

	lines := f.runner.Console().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "one", lines[0].Text)
	assert.Equal(t, "two", lines[1].Text)
}
