package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Rounds  int           // Number of scenario rounds
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	LogFile string        // Log file for test output
	Verbose bool          // Log every check, not only failures
}

// Stats holds run statistics.
type Stats struct {
	RoundsRun    int
	RoundsFailed int
	ChecksPassed int
	ChecksFailed int
	Requests     int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

// Failure describes a single failed check.
type Failure struct {
	Round  int
	Check  string
	Detail string
}
