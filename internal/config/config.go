// Package config loads meetctx configuration from defaults, an optional
// YAML file and MEETCTX_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"meetctx/internal/extract"
)

const (
	envPrefix         = "MEETCTX_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

type Config struct {
	Log      LogConfig      `koanf:"log"`
	Extract  ExtractConfig  `koanf:"extract"`
	Announce AnnounceConfig `koanf:"announce"`
	Server   ServerConfig   `koanf:"server"`
	NATS     NATSConfig     `koanf:"nats"`
	Fetch    FetchConfig    `koanf:"fetch"`
	Watch    WatchConfig    `koanf:"watch"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// ExtractConfig mirrors extract.Bounds.
type ExtractConfig struct {
	MaxTitleLength       int `koanf:"max_title_length" validate:"gte=1"`
	MinParticipantLength int `koanf:"min_participant_length" validate:"gte=1"`
	MaxParticipantLength int `koanf:"max_participant_length" validate:"gtfield=MinParticipantLength"`
	MaxParticipants      int `koanf:"max_participants" validate:"gte=1"`
}

type AnnounceConfig struct {
	Enabled bool          `koanf:"enabled"`
	Delay   time.Duration `koanf:"delay" validate:"gte=0"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	BatchWorkers    int           `koanf:"batch_workers" validate:"gte=1,lte=100"`
}

// NATSConfig enables the NATS transport when URL is set.
type NATSConfig struct {
	URL            string        `koanf:"url"`
	QuerySubject   string        `koanf:"query_subject" validate:"required"`
	EventSubject   string        `koanf:"event_subject" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
}

type FetchConfig struct {
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	DialTimeout time.Duration `koanf:"dial_timeout" validate:"gt=0"`
	SizeCap     int64         `koanf:"size_cap" validate:"gt=0"`
}

// WatchConfig names the page a long-running responder serves.
type WatchConfig struct {
	URL string `koanf:"url" validate:"omitempty,url"`
}

func Default() Config {
	b := extract.DefaultBounds()
	return Config{
		Log: LogConfig{Level: "info", Format: "json"},
		Extract: ExtractConfig{
			MaxTitleLength:       b.MaxTitleLength,
			MinParticipantLength: b.MinParticipantLength,
			MaxParticipantLength: b.MaxParticipantLength,
			MaxParticipants:      b.MaxParticipants,
		},
		Announce: AnnounceConfig{Enabled: true, Delay: 500 * time.Millisecond},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			BatchWorkers:    10,
		},
		NATS: NATSConfig{
			QuerySubject:   "meetctx.query",
			EventSubject:   "meetctx.events",
			RequestTimeout: 5 * time.Second,
		},
		Fetch: FetchConfig{
			Timeout:     15 * time.Second,
			DialTimeout: 5 * time.Second,
			SizeCap:     5 * 1024 * 1024, // 5MB cap
		},
	}
}

// Bounds converts the extract section for the extraction engine.
func (c Config) Bounds() extract.Bounds {
	return extract.Bounds{
		MaxTitleLength:       c.Extract.MaxTitleLength,
		MinParticipantLength: c.Extract.MinParticipantLength,
		MaxParticipantLength: c.Extract.MaxParticipantLength,
		MaxParticipants:      c.Extract.MaxParticipants,
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads configuration. An empty path skips the file; a missing file is
// an error.
//
// Environment variables split on the first underscore after the prefix:
//
//	MEETCTX_EXTRACT_MAX_PARTICIPANTS -> extract.max_participants
//	MEETCTX_NATS_URL                 -> nats.url
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}
