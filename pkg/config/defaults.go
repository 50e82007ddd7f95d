// Package config provides centralized default values for ChapterDesk
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Remote API Configuration
	RemoteBaseURL  string
	RemoteToken    string
	RequestTimeout time.Duration

	// Staleness Configuration
	StaleThreshold time.Duration

	// Vote Polling Configuration
	VotePollInterval time.Duration
	VotePollVerbose  bool

	// SSE Configuration
	SSEClientBuffer             int
	SSEHeartbeatIntervalSeconds int

	// Snapshot Configuration
	SnapshotPath     string
	SnapshotEnabled  bool
	SnapshotInterval time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Remote API
	RemoteBaseURL = getEnvString("CHAPTER_API_URL", "https://api.chapterdesk.example")
	RemoteToken = getEnvString("CHAPTER_API_TOKEN", "")
	RequestTimeout = getEnvDuration("CHAPTER_API_TIMEOUT", 10*time.Second)

	// Staleness
	StaleThreshold = time.Duration(getEnvInt("STALE_THRESHOLD_MINUTES", 5)) * time.Minute

	// Vote Polling
	VotePollInterval = time.Duration(getEnvInt("VOTE_POLL_INTERVAL_SECONDS", 5)) * time.Second
	VotePollVerbose = getEnvString("VOTE_POLL_VERBOSE", "false") == "true"

	// SSE
	SSEClientBuffer = getEnvInt("SSE_CLIENT_BUFFER", 10)
	SSEHeartbeatIntervalSeconds = getEnvInt("SSE_HEARTBEAT_INTERVAL_SECONDS", 30)

	// Snapshot
	SnapshotPath = getEnvString("SNAPSHOT_PATH", "chapterdesk.db")
	SnapshotEnabled = getEnvString("SNAPSHOT_ENABLED", "true") == "true"
	SnapshotInterval = time.Duration(getEnvInt("SNAPSHOT_INTERVAL_SECONDS", 60)) * time.Second
}
