package cli

import "github.com/runnerr0/smokelog/internal/storage"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DB      string `long:"db" description:"Override database file path"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// LogCommand records a smoke or a craving. It is registered once per kind.
type LogCommand struct {
	kind    storage.Kind
	globals *GlobalFlags
	env     *env // injectable for testing; nil means open from config
}

// UndoCommand takes back the most recent event while its undo window is open.
type UndoCommand struct {
	globals *GlobalFlags
	env     *env
}

// HistoryCommand lists the most recent events.
type HistoryCommand struct {
	Limit int `long:"limit" description:"Maximum events to list (default from config)"`

	globals *GlobalFlags
	env     *env
}

// StatsCommand prints the 7-day rollup and the hour distribution.
type StatsCommand struct {
	globals *GlobalFlags
	env     *env
}

// StatusCommand prints the home summary plus all-time totals.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	env     *env
}

// WipeCommand deletes ALL events after a safety confirmation.
type WipeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm wipe intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	env     *env
}

// SessionCommand runs an interactive loop with an in-memory undo window.
type SessionCommand struct {
	globals *GlobalFlags
	env     *env
}
