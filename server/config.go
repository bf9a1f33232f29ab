package server

import "time"

// Config is the HTTP server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string

	// DBPath is the path to the SQLite archive database.
	// Empty keeps the archive in memory.
	DBPath string

	// MaxSessions caps live chat sessions. Zero means no cap.
	MaxSessions int

	// SessionIdleTTL expires chat sessions unused for this long. Zero keeps them
	// until deleted.
	SessionIdleTTL time.Duration
}
