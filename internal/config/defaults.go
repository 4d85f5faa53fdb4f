// ABOUTME: Centralized configuration defaults for thoughts
// ABOUTME: Contains magic numbers and hardcoded values for networking, display and storage

package config

import "time"

// Network settings
const (
	DefaultHTTPTimeout = 30 * time.Second
	DefaultListenAddr  = "127.0.0.1:5000"
	DefaultServerURL   = "http://127.0.0.1:5000"
)

// Display settings
const (
	DefaultListLimit = 20
	SeparatorWidth   = 60
	DateFormatLong   = "Mon, 02 Jan 2006 15:04 MST"
)

// Storage settings
const (
	DBFilename      = "thoughts.db"
	DefaultDirPerms = 0755
)
