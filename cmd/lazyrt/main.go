package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/lazy-runtime/config"
	"github.com/wippyai/lazy-runtime/runtime"
)

func main() {
	var (
		demoName    = flag.String("demo", "", "Demo program to run ("+strings.Join(demoNames(), ", ")+")")
		arg         = flag.Int("n", -1, "Numeric argument for the demo (default depends on the demo)")
		configFiles = flag.String("config", "", "CUE configuration files (comma-separated)")
		list        = flag.Bool("list", false, "List demo programs and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFiles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *list {
		for _, name := range demoNames() {
			fmt.Printf("  %-10s %s (default n=%d)\n", name, demos[name].summary, demos[name].def)
		}
		return
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *demoName == "" {
		fmt.Fprintln(os.Stderr, "Usage: lazyrt -demo <name> [-n value] [-config a.cue,b.cue]")
		fmt.Fprintln(os.Stderr, "       lazyrt -list")
		fmt.Fprintln(os.Stderr, "       lazyrt -i  (interactive mode)")
		os.Exit(1)
	}

	out, err := run(context.Background(), cfg, *demoName, *arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

func loadConfig(files string) (*config.Config, error) {
	if files == "" {
		return config.Default(), nil
	}
	return config.Load(strings.Split(files, ",")...)
}

// run executes one demo on a fresh runtime, logging as the configuration
// says.
func run(ctx context.Context, cfg *config.Config, name string, n int) (string, error) {
	log, err := cfg.NewLogger()
	if err != nil {
		return "", fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	return runDemo(ctx, cfg, log, name, n)
}

// runDemo executes one demo on a fresh runtime. A negative n selects the
// demo's default argument.
func runDemo(ctx context.Context, cfg *config.Config, log *zap.Logger, name string, n int) (string, error) {
	d, ok := demos[name]
	if !ok {
		return "", fmt.Errorf("unknown demo %q", name)
	}
	if n < 0 {
		n = d.def
	}

	rt, err := runtime.NewFromConfig(ctx, cfg, log)
	if err != nil {
		return "", fmt.Errorf("runtime: %w", err)
	}
	defer rt.Close(ctx)

	log.Debug("running demo", zap.String("demo", name), zap.Int("n", n))
	return d.run(ctx, rt, n)
}
