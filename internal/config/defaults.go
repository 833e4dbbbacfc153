package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:              "~/.local/share/smokelog",
			SQLiteFile:        "smokelog.db",
			SQLiteJournalMode: "wal",
		},
		Undo: UndoConfig{
			Seconds: 10,
		},
		History: HistoryConfig{
			Limit: 300,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "smokelog.log",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}
