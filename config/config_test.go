package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rterrors "github.com/wippyai/lazy-runtime/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Scheduler.MaxStackDepth != 10000 {
		t.Fatalf("max stack depth = %d", cfg.Scheduler.MaxStackDepth)
	}
	if cfg.Scheduler.Trace.Threads || cfg.Scheduler.Trace.MVars {
		t.Fatalf("trace = %+v", cfg.Scheduler.Trace)
	}
	if strings.Join(cfg.Loader.Packages, ",") != ".,ghc-prim,integer-simple,base" {
		t.Fatalf("packages = %v", cfg.Loader.Packages)
	}
	if cfg.Arena.InitialPages != 1 || cfg.Arena.MaxPages != 256 {
		t.Fatalf("arena = %+v", cfg.Arena)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Fatalf("log = %+v", cfg.Log)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse("test.cue", []byte(`
scheduler: {
	max_stack_depth: 500
	trace: mvars: true
}
loader: packages: ["app", "base"]
log: format: "json"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Scheduler.MaxStackDepth != 500 || !cfg.Scheduler.Trace.MVars || cfg.Scheduler.Trace.Threads {
		t.Fatalf("scheduler = %+v", cfg.Scheduler)
	}
	if strings.Join(cfg.Loader.Packages, ",") != "app,base" {
		t.Fatalf("packages = %v", cfg.Loader.Packages)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Fatalf("log = %+v", cfg.Log)
	}

	rc := cfg.RTS(nil)
	if rc.MaxStackDepth != 500 || !rc.TraceMVars {
		t.Fatalf("rts config = %+v", rc)
	}
	if lc := cfg.LoaderConfig(nil); len(lc.Packages) != 2 {
		t.Fatalf("loader config = %+v", lc)
	}
	if ac := cfg.ArenaConfig(nil); ac.MaxPages != 256 {
		t.Fatalf("arena config = %+v", ac)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `scheduler: {`},
		{"unknown field", `bogus: 1`},
		{"unknown nested field", `scheduler: speed: 1`},
		{"wrong type", `scheduler: max_stack_depth: "deep"`},
		{"non-positive depth", `scheduler: max_stack_depth: 0`},
		{"bad level", `log: level: "loud"`},
		{"too many pages", `arena: max_pages: 70000`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.name+".cue", []byte(tt.src))
			if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseConfig, Kind: rterrors.KindInvalidData}) {
				t.Fatalf("err = %v, want invalid config", err)
			}
		})
	}
}

func TestLoadUnifiesFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.cue", `scheduler: max_stack_depth: 2000`)
	b := writeFile(t, dir, "b.cue", `log: level: "debug"`)

	cfg, err := Load(a, b)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scheduler.MaxStackDepth != 2000 || cfg.Log.Level != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConflict(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.cue", `scheduler: max_stack_depth: 2000`)
	b := writeFile(t, dir, "b.cue", `scheduler: max_stack_depth: 3000`)

	if _, err := Load(a, b); err == nil {
		t.Fatal("conflicting files should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseConfig, Kind: rterrors.KindNotFound}) {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err should wrap os.ErrNotExist: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		cfg := Default()
		cfg.Log.Format = format
		cfg.Log.Level = "warn"
		log, err := cfg.NewLogger()
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if log.Core().Enabled(-1) {
			t.Fatalf("%s: debug should be disabled at warn", format)
		}
	}

	cfg := Default()
	cfg.Log.Level = "loud"
	if _, err := cfg.NewLogger(); err == nil {
		t.Fatal("bad level should fail")
	}
}
