// Package config resolves daemon configuration from the environment with
// usable defaults. Secrets come from the environment (the daemon loads a
// .env file first); everything else is tunable but optional.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"talkie/internal/ipc"
)

type Config struct {
	Deepgram DeepgramConfig
	OpenAI   OpenAIConfig
	Audio    AudioConfig
	Session  SessionConfig
	Button   ButtonConfig

	// BusURL connects the daemon to an event hub when non-empty.
	BusURL string
	// ProxyAddr routes outbound HTTP through a SOCKS5 proxy when non-empty.
	ProxyAddr string
}

type DeepgramConfig struct {
	APIKey  string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Preamble string
}

type AudioConfig struct {
	SampleRate  int
	MaxDuration time.Duration
}

type SessionConfig struct {
	SpoolDir     string
	PollInterval time.Duration
	FailurePause time.Duration
	DisplayHold  time.Duration
	Cooldown     time.Duration
}

type ButtonConfig struct {
	// Source selects the control backend: "ipc" or "gpio".
	Source     string
	SocketPath string
	GPIOPath   string
	ActiveLow  bool
}

func Load() Config {
	cfg := Config{
		Deepgram: DeepgramConfig{
			APIKey:  strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
			BaseURL: envOrDefault("DEEPGRAM_API_BASE", "https://api.deepgram.com/v1"),
		},
		OpenAI: OpenAIConfig{
			APIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			BaseURL:  strings.TrimSpace(os.Getenv("OPENAI_API_BASE")),
			Model:    strings.TrimSpace(os.Getenv("TALKIE_MODEL")),
			Preamble: strings.TrimSpace(os.Getenv("TALKIE_PREAMBLE")),
		},
		Audio: AudioConfig{
			SampleRate:  envOrDefaultInt("TALKIE_SAMPLE_RATE", 16000),
			MaxDuration: envOrDefaultDuration("TALKIE_MAX_RECORD", 10*time.Second),
		},
		Session: SessionConfig{
			SpoolDir:     envOrDefault("TALKIE_SPOOL_DIR", os.TempDir()),
			PollInterval: envOrDefaultDuration("TALKIE_POLL_INTERVAL", 50*time.Millisecond),
			FailurePause: envOrDefaultDuration("TALKIE_FAILURE_PAUSE", 1500*time.Millisecond),
			DisplayHold:  envOrDefaultDuration("TALKIE_DISPLAY_HOLD", 6*time.Second),
			Cooldown:     envOrDefaultDuration("TALKIE_COOLDOWN", 400*time.Millisecond),
		},
		Button: ButtonConfig{
			Source:     envOrDefault("TALKIE_BUTTON", "ipc"),
			SocketPath: envOrDefault("TALKIE_SOCKET", ipc.DefaultSocketPath),
			GPIOPath:   strings.TrimSpace(os.Getenv("TALKIE_GPIO_PATH")),
			ActiveLow:  envOrDefaultBool("TALKIE_GPIO_ACTIVE_LOW", false),
		},
		BusURL:    strings.TrimSpace(os.Getenv("BUS_URL")),
		ProxyAddr: strings.TrimSpace(os.Getenv("TALKIE_PROXY")),
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.MaxDuration <= 0 {
		cfg.Audio.MaxDuration = 10 * time.Second
	}
	if cfg.Session.PollInterval <= 0 {
		cfg.Session.PollInterval = 50 * time.Millisecond
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
