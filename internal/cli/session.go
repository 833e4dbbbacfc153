package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/smokelog/internal/report"
	"github.com/runnerr0/smokelog/internal/storage"
	"github.com/runnerr0/smokelog/internal/undo"
)

const sessionHelp = `Commands:
  s  log a smoke        c  log a craving     u  undo last event
  h  history            t  stats             w  wipe everything
  r  refresh summary    ?  help              q  quit`

// Execute implements the go-flags Commander interface for SessionCommand.
func (c *SessionCommand) Execute(args []string) error {
	return withEnv(c.globals, c.env, c.run)
}

// session is the state of one interactive run.
type session struct {
	e       *env
	ctx     context.Context
	window  *undo.Window
	scanner *bufio.Scanner
}

func (c *SessionCommand) run(e *env) error {
	s := &session{
		e:       e,
		ctx:     context.Background(),
		window:  undo.New(e.undoWindow()),
		scanner: bufio.NewScanner(e.in),
	}

	fmt.Fprintln(e.out, sessionHelp)
	fmt.Fprintln(e.out)
	if err := s.refresh(); err != nil {
		return err
	}

	for {
		s.prompt()
		if !s.scanner.Scan() {
			fmt.Fprintln(e.out)
			return s.scanner.Err()
		}

		quit, err := s.handle(strings.ToLower(strings.TrimSpace(s.scanner.Text())))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (s *session) prompt() {
	if id, ok := s.window.Pending(s.e.now()); ok {
		fmt.Fprintf(s.e.out, "[undo #%d: %ds] > ", id, s.window.RemainingSeconds(s.e.now()))
		return
	}
	fmt.Fprint(s.e.out, "> ")
}

func (s *session) handle(cmd string) (bool, error) {
	switch cmd {
	case "s", "smoke":
		return false, s.log(storage.KindSmoke)
	case "c", "craving":
		return false, s.log(storage.KindCraving)
	case "u", "undo":
		return false, s.undo()
	case "h", "history":
		events, err := s.e.store.Latest(s.ctx, s.e.cfg.History.Limit)
		if err != nil {
			return false, fmt.Errorf("history: %w", err)
		}
		report.RenderHistory(s.e.out, events, s.e.now().Location())
	case "t", "stats":
		st, err := report.BuildStats(s.ctx, s.e.store, s.e.now())
		if err != nil {
			return false, fmt.Errorf("stats: %w", err)
		}
		report.RenderStats(s.e.out, st)
	case "w", "wipe":
		return false, s.wipe()
	case "", "r", "refresh":
		return false, s.refresh()
	case "?", "help":
		fmt.Fprintln(s.e.out, sessionHelp)
	case "q", "quit", "exit":
		return true, nil
	default:
		fmt.Fprintf(s.e.out, "Unknown command %q. Type ? for help.\n", cmd)
	}
	return false, nil
}

func (s *session) log(kind storage.Kind) error {
	id, err := s.e.store.Append(s.ctx, kind)
	if err != nil {
		return fmt.Errorf("log %s: %w", kind, err)
	}
	s.e.logger.Info("event appended", "id", id, "kind", kind)
	if err := s.e.store.MarkUndo(s.ctx, id); err != nil {
		return fmt.Errorf("log %s: %w", kind, err)
	}

	s.window.Arm(id, s.e.now())
	fmt.Fprintf(s.e.out, "Logged %s #%d. Undo available for %ds.\n", kind, id, s.window.RemainingSeconds(s.e.now()))
	return s.refresh()
}

func (s *session) undo() error {
	id, ok := s.window.Take(s.e.now())
	if !ok {
		fmt.Fprintln(s.e.out, "Nothing to undo.")
		return nil
	}

	// The id may already be gone after a wipe; Delete treats that as a no-op.
	if err := s.e.store.Delete(s.ctx, id); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	s.e.logger.Info("event undone", "id", id)

	fmt.Fprintf(s.e.out, "Undid #%d.\n", id)
	return s.refresh()
}

func (s *session) wipe() error {
	fmt.Fprintln(s.e.out, "⚠ This will permanently delete ALL logged smokes and cravings.")
	if err := confirm(s.scanner, s.e.out, wipeConfirmWord); err != nil {
		fmt.Fprintln(s.e.out, err)
		return nil
	}

	if err := s.e.store.WipeAll(s.ctx); err != nil {
		return fmt.Errorf("wipe failed: %w", err)
	}
	s.e.logger.Warn("all events wiped")

	fmt.Fprintln(s.e.out, "Wiped all events.")
	return s.refresh()
}

func (s *session) refresh() error {
	home, err := report.BuildHome(s.ctx, s.e.store, s.e.now())
	if err != nil {
		return err
	}
	report.RenderHome(s.e.out, home)
	return nil
}
