// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Tower Core engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nathoo/towercore/autoplay"
	"github.com/nathoo/towercore/engine"
	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/storage"
	"github.com/nathoo/towercore/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	Meta      *Meta
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)

	// AutoPlayInterval is the background battle cadence. Zero disables the
	// driver, which keeps scripted runs deterministic.
	AutoPlayInterval time.Duration

	mu      sync.Mutex // serializes writes to Out
	lastCmd string     // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine and save store.
func New(eng *engine.Engine, defs *state.Defs, store storage.Store) *CLI {
	return &CLI{
		Engine: eng,
		Defs:   defs,
		Meta:   &Meta{Engine: eng, Defs: defs, Store: store},
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop. It shows the intro, opens the tower if needed,
// then loops: prompt, input, dispatch, output. It returns on /quit, end of
// input, or when ctx is cancelled between commands.
func (c *CLI) Run(ctx context.Context) {
	if c.Defs.Intro != "" {
		c.printLine(c.Defs.Intro)
		c.printLine("")
	}

	if !c.Engine.Snapshot().Initialized {
		c.printResult(c.Engine.Initialize())
	}
	c.printResult(c.Engine.Step("status"))

	if c.AutoPlayInterval > 0 {
		autoCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			_ = autoplay.Run(autoCtx, c.Engine, c.AutoPlayInterval, c.printResult)
		}()
	}

	scanner := bufio.NewScanner(c.In)
	for {
		if ctx.Err() != nil {
			return
		}
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			lines, quit := c.Meta.Handle(ctx, input)
			for _, l := range lines {
				c.printSystem(l)
			}
			if quit {
				return
			}
			if strings.HasPrefix(input, "/load") {
				c.printResult(c.Engine.Step("status"))
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)
		if c.Meta.Trace {
			for _, l := range FormatTrace(result) {
				c.printLine(l)
			}
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range result.Output {
		fmt.Fprintln(c.Out, line)
	}
}

func (c *CLI) printLine(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
