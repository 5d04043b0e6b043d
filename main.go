// pattern: Imperative Shell
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"tagsentry/internal/config"
	"tagsentry/internal/filetype"
	"tagsentry/internal/instance"
	"tagsentry/internal/invoke"
	"tagsentry/internal/logging"
	"tagsentry/internal/orchestrator"
	"tagsentry/internal/resolve"
	"tagsentry/internal/watcher"
)

var version = "dev"

func main() {
	configPath := flag.StringP("config", "c", "", "config file (default: ~/.config/tagsentry/config.yaml)")
	rootFlag := flag.String("root", "", "watch root (overrides the root declaration file)")
	rootFile := flag.String("root-file", "", "root declaration file (overrides config)")
	status := flag.Bool("status", false, "report whether a tagsentry daemon is running")
	showVersion := flag.Bool("version", false, "print version")
	flag.Parse()

	if *showVersion {
		fmt.Println("tagsentry " + version)
		return
	}

	if *status {
		pid, err := instance.RunningPid(config.DataDir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if pid == 0 {
			fmt.Println("tagsentry is not running")
			return
		}
		fmt.Printf("tagsentry is running (pid %d)\n", pid)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}

	root, err := resolveRoot(cfg, *rootFlag, *rootFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, root); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration from the specified path or default location.
func loadConfig(configPath string) (config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// resolveRoot determines the watch root: the --root flag wins, then
// the root declaration file. A daemon must not start without one.
func resolveRoot(cfg config.Config, rootFlag, rootFileFlag string) (string, error) {
	if rootFlag != "" {
		root := config.ResolvePath(rootFlag)
		if !filepath.IsAbs(root) {
			return "", fmt.Errorf("--root %q is not an absolute path", rootFlag)
		}
		return root, nil
	}

	rootFile := cfg.RootFile
	if rootFileFlag != "" {
		rootFile = rootFileFlag
	}
	return config.LoadRoot(rootFile)
}

func run(cfg config.Config, root string) error {
	dataDir := config.DataDir()

	fl, err := instance.Lock(dataDir)
	if err != nil {
		return err
	}
	defer instance.Cleanup(dataDir, fl)

	logManager, err := logging.NewManager(logging.Config{
		FilePath:   filepath.Join(dataDir, "tagsentry.log"),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Level:      cfg.LogLevel,
		Console:    true,
	})
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logManager.Close() }()

	appLogger := logManager.For("app")
	appLogger.Info("tagsentry starting", "version", version, "root", root, "tool", cfg.ToolPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Filetype discovery is a hard startup requirement: without the
	// tool's pattern list no change could ever be judged relevant.
	registry, err := filetype.Discover(ctx, cfg.ToolPath)
	if err != nil {
		return err
	}
	appLogger.Info("filetype registry initialized", "patterns", len(registry.Patterns()))

	resolver := resolve.New(cfg.MarkerName, registry, logManager.For("resolver"))
	builder := invoke.NewBuilder(cfg.ToolPath, cfg.ToolArgs, cfg.ExcludeName, logManager.For("invoker"))
	runner := invoke.NewRunner(logManager.For("indexer"))
	orch := orchestrator.New(resolver, builder, runner, logManager.For("orchestrator"))

	w, err := watcher.New(watcher.Config{
		Root:        root,
		Quiescence:  time.Duration(cfg.QuiescenceDelay),
		IgnoreGlobs: cfg.IgnoreGlobs,
	}, orch.HandleBatch, logManager.For("watcher"))
	if err != nil {
		return err
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		appLogger.Info("tagsentry stopped")
		return nil
	}
	return err
}
