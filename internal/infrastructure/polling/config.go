package polling

import (
	"time"

	"github.com/ChapterDesk/chapterdesk-go/pkg/config"
)

// Config holds vote poller configuration, sourced from the central config package.
type Config struct {
	Interval         time.Duration
	VerboseReporting bool
}

// NewConfig creates a new poller configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		Interval:         config.VotePollInterval,
		VerboseReporting: config.VotePollVerbose,
	}
}
