package scripts

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/compiler"
	"github.com/atlanticdynamic/scripthook/internal/input"
	"github.com/atlanticdynamic/scripthook/internal/scheduler"
	"github.com/atlanticdynamic/scripthook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterLua = `
local ticks = 0

function on_tick()
  ticks = ticks + 1
  console.info("tick {0}", ticks)
  if ticks == 2 then script.wait(1000) end
  if ticks == 3 then script.abort() end
end

function on_key_down(key, mods)
  if mods.control then
    console.warn("ctrl {0}", key)
  else
    console.info("key {0}", key)
  end
end

function on_aborted()
  settings.set("state", "ticks", ticks)
  settings.save()
  print("bye", script.name())
end
`

type loaderFixture struct {
	dir     string
	sched   *scheduler.Scheduler
	loader  *Loader
	printer *recordingPrinter
	clock   *testutil.ManualClock
	logs    *testutil.ThreadSafeBuffer
	book    *LogBook
}

func newLoaderFixture(t *testing.T) *loaderFixture {
	t.Helper()
	f := &loaderFixture{
		dir:     t.TempDir(),
		printer: &recordingPrinter{},
		clock:   testutil.NewManualClock(time.Unix(0, 0)),
		logs:    &testutil.ThreadSafeBuffer{},
	}
	handler := slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug})
	f.sched = scheduler.New(scheduler.WithLogHandler(handler))
	f.book = NewLogBook(handler, 0)
	f.loader = NewLoader(f.sched,
		WithLogHandler(handler),
		WithScriptsDir(f.dir),
		WithMaxParallel(2),
		WithPrinter(f.printer),
		WithClock(f.clock),
		WithLogBook(f.book),
	)
	return f
}

func TestLoader_LuaScriptLifecycle(t *testing.T) {
	t.Parallel()

	f := newLoaderFixture(t)
	writeFile(t, f.dir, "counter.lua", counterLua)

	n, err := f.loader.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Contains(t, f.logs.String(), "Found 1 script(s) in 'counter.lua'.")

	script, err := f.sched.Lookup("counter")
	require.NoError(t, err)
	assert.True(t, script.IsRunning())
	assert.Equal(t, filepath.Join(f.dir, "counter.lua"), script.Filename())

	f.sched.DispatchKey(input.KeyEvent{Key: input.KeyA, Mods: input.ModControl, Down: true})
	f.sched.Tick(t.Context())
	f.sched.Tick(t.Context())
	// Waiting for a second, so this frame does nothing.
	f.sched.Tick(t.Context())
	f.clock.Advance(time.Second)
	f.sched.Tick(t.Context())

	assert.Equal(t, []string{
		"warn: ctrl {0} [A]",
		"info: tick {0} [1]",
		"info: tick {0} [2]",
		"info: tick {0} [3]",
		"info: bye\tcounter",
	}, f.printer.texts())
	assert.True(t, script.IsAborted())

	settings, err := LoadSettings(filepath.Join(f.dir, "counter.toml"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), settings.GetValue("state", "ticks", nil))

	records, err := f.book.Records("counter")
	require.NoError(t, err)
	assert.NotEmpty(t, records)
}

func TestLoader_CompileFailure(t *testing.T) {
	t.Parallel()

	f := newLoaderFixture(t)
	writeFile(t, f.dir, "bad.lua", "x = = 1")
	writeFile(t, f.dir, "good.lua", "function on_tick() end")

	n, err := f.loader.Load(t.Context())
	require.ErrorIs(t, err, compiler.ErrCompile)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, f.sched.Len())
	assert.Contains(t, f.logs.String(), "Failed to compile 'bad.lua' with 1 error(s):")
	assert.Contains(t, f.logs.String(), "at line 1:")
}

func TestLoader_InstantiateFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		wantErr error
	}{
		{"callback is not a function", "on_tick = 5", ErrBadCallbackType},
		{"script api at top level", "script.wait(10)", ErrInstantiate},
		{"top level error", "error('nope')", ErrInstantiate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newLoaderFixture(t)
			writeFile(t, f.dir, "broken.lua", tc.source)

			n, err := f.loader.Load(t.Context())
			require.ErrorIs(t, err, tc.wantErr)
			assert.Zero(t, n)
			assert.Zero(t, f.sched.Len())
		})
	}
}

func TestLoader_LuaTickErrorAbortsScript(t *testing.T) {
	t.Parallel()

	f := newLoaderFixture(t)
	writeFile(t, f.dir, "crash.lua", `
function on_tick() error("boom") end
function on_aborted() console.error("aborted") end
`)
	_, err := f.loader.Load(t.Context())
	require.NoError(t, err)

	f.sched.Tick(t.Context())
	script, err := f.sched.Lookup("crash")
	require.NoError(t, err)
	assert.True(t, script.IsAborted())
	assert.Equal(t, []string{"error: aborted"}, f.printer.texts())
	assert.Contains(t, f.logs.String(), "boom")
}

func TestLoader_LuaIntervalAndPause(t *testing.T) {
	t.Parallel()

	f := newLoaderFixture(t)
	writeFile(t, f.dir, "slow.lua", `
function on_tick()
  script.set_interval(500)
  console.info("{0} {1}", script.name(), script.interval())
end
function on_key_down(key)
  if key == "P" then script.pause() end
end
`)
	_, err := f.loader.Load(t.Context())
	require.NoError(t, err)

	f.sched.Tick(t.Context())
	f.sched.Tick(t.Context())
	f.clock.Advance(500 * time.Millisecond)
	f.sched.DispatchKey(input.KeyEvent{Key: input.KeyP, Down: true})
	f.sched.Tick(t.Context())

	script, err := f.sched.Lookup("slow")
	require.NoError(t, err)
	assert.True(t, script.IsPaused())
	assert.Equal(t, []string{"info: {0} {1} [slow 500]"}, f.printer.texts())
}

func TestLoader_StarlarkScript(t *testing.T) {
	t.Parallel()

	f := newLoaderFixture(t)
	writeFile(t, f.dir, "events.star", `
def handle():
    if ctx["event"] == "tick":
        return {"print": "tick " + ctx["script"], "wait": 500}
    if ctx["event"] == "key_down":
        return {"print": "key " + ctx["key"], "abort": ctx["mods"]["shift"]}
    return {"print": ctx["event"]}

_ = handle()
`)
	n, err := f.loader.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	f.sched.Tick(t.Context())
	f.sched.Tick(t.Context())
	f.clock.Advance(500 * time.Millisecond)
	f.sched.DispatchKey(input.KeyEvent{Key: input.KeyZ, Mods: input.ModShift, Down: true})
	f.sched.Tick(t.Context())

	assert.Equal(t, []string{
		"info: tick events",
		"info: key Z",
		"info: aborted",
	}, f.printer.texts())
}

func TestLoader_RisorScript(t *testing.T) {
	t.Parallel()

	f := newLoaderFixture(t)
	writeFile(t, f.dir, "counter.risor", `
function handle(event) {
    if (event == "tick") {
        return {"print": "tick " + ctx["script"]}
    }
    if (event == "key_down") {
        return {"interval": 250}
    }
    return nil
}

handle(ctx["event"])
`)
	n, err := f.loader.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	f.sched.Tick(t.Context())
	f.sched.DispatchKey(input.KeyEvent{Key: input.KeyK, Down: true})
	f.sched.DispatchKey(input.KeyEvent{Key: input.KeyK})
	f.sched.Tick(t.Context())

	script, err := f.sched.Lookup("counter")
	require.NoError(t, err)
	assert.True(t, script.IsRunning())
	assert.Equal(t, 250*time.Millisecond, script.Interval())
	require.NotEmpty(t, f.printer.texts())
	assert.Equal(t, "info: tick counter", f.printer.texts()[0])
}

func TestLoader_NoScripts(t *testing.T) {
	t.Parallel()

	f := newLoaderFixture(t)
	n, err := f.loader.Load(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}
