package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"github.com/runnerr0/smokelog/internal/storage"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Smoke   *LogCommand
	Craving *LogCommand
	Undo    *UndoCommand
	History *HistoryCommand
	Stats   *StatsCommand
	Status  *StatusCommand
	Wipe    *WipeCommand
	Session *SessionCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "smokelog"
	parser.LongDescription = "Offline log of smokes and cravings with simple daily statistics."

	cmds := &commands{
		Smoke:   &LogCommand{kind: storage.KindSmoke, globals: &globals},
		Craving: &LogCommand{kind: storage.KindCraving, globals: &globals},
		Undo:    &UndoCommand{globals: &globals},
		History: &HistoryCommand{globals: &globals},
		Stats:   &StatsCommand{globals: &globals},
		Status:  &StatusCommand{globals: &globals, version: version},
		Wipe:    &WipeCommand{globals: &globals},
		Session: &SessionCommand{globals: &globals},
	}

	parser.AddCommand("smoke", "Log a smoke", "Log a smoke at the current time.", cmds.Smoke)
	parser.AddCommand("craving", "Log a craving", "Log a craving at the current time.", cmds.Craving)
	parser.AddCommand("undo", "Undo the last event", "Delete the most recent event if it is still inside the undo window.", cmds.Undo)
	parser.AddCommand("history", "List recent events", "List the most recent events, newest first.", cmds.History)
	parser.AddCommand("stats", "Show statistics", "Show the 7-day rollup, hour-of-day distribution and today's intervals.", cmds.Stats)
	parser.AddCommand("status", "Show today's summary", "Show today's count, the last smoke and today's intervals.", cmds.Status)
	parser.AddCommand("wipe", "Delete ALL events", "Delete ALL events. Destructive operation with safety prompt.", cmds.Wipe)
	parser.AddCommand("session", "Interactive logging session", "Start an interactive session with a live undo window.", cmds.Session)

	return parser, &globals, cmds
}

// Run is the main entry point for the smokelog CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("smokelog %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
