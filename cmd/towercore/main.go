// Tower Core is a deterministic incremental RPG: a party climbs an endless
// tower, loots gear and gems, crafts and shops between fights.
// Usage: towercore [--version] [--plain] [--script <file>] [--trace] [--content <dir>]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/nathoo/towercore/cli"
	"github.com/nathoo/towercore/config"
	"github.com/nathoo/towercore/engine"
	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/loader"
	"github.com/nathoo/towercore/storage"
	"github.com/nathoo/towercore/storage/files"
	"github.com/nathoo/towercore/storage/sqlite"
	"github.com/nathoo/towercore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: towercore [--version] [--plain] [--script <file>] [--trace] [--content <dir>]"

func main() {
	log.SetFlags(0)
	log.SetPrefix("towercore: ")

	plain := false
	trace := false
	var contentDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("towercore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script", "--content":
			if i+1 >= len(args) {
				log.Fatalf("%s requires a path\n%s", args[i], usage)
			}
			if args[i] == "--script" {
				scriptFile = args[i+1]
			} else {
				contentDir = args[i+1]
			}
			i++
		default:
			log.Fatalf("unknown argument %q\n%s", args[i], usage)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if contentDir == "" {
		contentDir = cfg.ContentDir
	}

	defs, err := loadDefs(contentDir)
	if err != nil {
		log.Fatalf("loading content: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("opening saves: %v", err)
	}
	defer store.Close()

	eng := engine.New(defs, cfg.Seed)
	if cfg.Username != "" {
		eng.SetUsername(cfg.Username)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Script mode: open file, force plain, echo commands, no auto-play.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			log.Fatalf("opening script: %v", err)
		}
		defer f.Close()
		printBanner(defs)
		c := cli.New(eng, defs, store)
		c.In = f
		c.EchoInput = true
		c.Meta.Trace = trace
		c.Run(ctx)
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(defs)
		c := cli.New(eng, defs, store)
		c.Meta.Trace = trace
		c.AutoPlayInterval = cfg.AutoPlayInterval
		c.Run(ctx)
		return
	}

	if err := tui.Run(eng, defs, store, cfg.AutoPlayInterval); err != nil {
		log.Fatalf("tui: %v", err)
	}
}

func loadDefs(dir string) (*state.Defs, error) {
	if dir == "" {
		return loader.LoadDefault()
	}
	return loader.Load(dir)
}

// openStore picks SQLite when a database path is configured and plain
// files otherwise.
func openStore(cfg config.Config) (storage.Store, error) {
	if cfg.DBPath != "" {
		return sqlite.Open(cfg.DBPath)
	}
	return files.Open(cfg.SaveDir)
}

func printBanner(defs *state.Defs) {
	fmt.Printf("%s v%s\n\n", defs.Title, defs.Version)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
