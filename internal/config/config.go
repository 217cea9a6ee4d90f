package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath           = "config.json"
	DefaultStateFile      = "message-state.json"
	DefaultUpdateInterval = 30000 // ms
	MinUpdateInterval     = 1000  // ms
)

// Link is an informational link rendered in the status message.
type Link struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Label string `json:"label" yaml:"label" validate:"required"`
	URL   string `json:"url" yaml:"url" validate:"required,url"`
}

// Embed holds the presentation text of the status message.
type Embed struct {
	Username  string `json:"username" yaml:"username"`
	AvatarURL string `json:"avatar_url" yaml:"avatar_url" validate:"omitempty,url"`
	Title     string `json:"title" yaml:"title"`
	Footer    string `json:"footer" yaml:"footer"`
	Version   string `json:"version" yaml:"version"`
	Whitelist string `json:"whitelist" yaml:"whitelist"`
	Links     []Link `json:"links" yaml:"links" validate:"dive"`
}

type Config struct {
	// From the config file.
	WebhookURL     string `json:"DISCORD_WEBHOOK_URL" yaml:"DISCORD_WEBHOOK_URL" validate:"required,url"`
	Domain         string `json:"MINECRAFT_DOMAIN" yaml:"MINECRAFT_DOMAIN" validate:"required,hostname_rfc1123"`
	Debug          bool   `json:"DEBUG" yaml:"DEBUG"`
	UpdateInterval int    `json:"UPDATE_INTERVAL" yaml:"UPDATE_INTERVAL" validate:"min=1000,whole_seconds"` // ms
	StateFile      string `json:"STATE_FILE" yaml:"STATE_FILE"`
	Embed          Embed  `json:"embed" yaml:"embed"`

	// From the environment.
	Addr        string `json:"-" yaml:"-"` // API bind address, ":3000" unless PORT says otherwise
	LogDir      string `json:"-" yaml:"-"`
	DatabaseURL string `json:"-" yaml:"-"` // empty means the state file is used
	RateRPM     int    `json:"-" yaml:"-"` // per-IP budget for /discord
	RateBurst   int    `json:"-" yaml:"-"`
	TrustProxy  bool   `json:"-" yaml:"-"` // take client IPs from X-Real-IP / X-Forwarded-For
}

// Interval is UPDATE_INTERVAL as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Millisecond
}

// PathFromEnv returns CONFIG_FILE or config.json.
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the config file at path (JSON, or YAML for .yaml/.yml), applies
// environment overrides and defaults, and validates the result.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config file %s not found: %w", path, err)
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(&cfg)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	port := 3000
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < 65536 {
			port = n
		}
	}
	cfg.Addr = ":" + strconv.Itoa(port)

	cfg.LogDir = os.Getenv("LOG_DIR")
	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.StateFile = v
	}

	if v := os.Getenv("TRUST_PROXY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TrustProxy = b
		}
	}

	cfg.RateRPM = 10
	if v := os.Getenv("DISCORD_RATE_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateRPM = n
		}
	}
	cfg.RateBurst = 3
	if v := os.Getenv("DISCORD_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateBurst = n
		}
	}
}

// ApplyDefaults fills every optional field left empty by the file.
func (c *Config) ApplyDefaults() {
	if c.UpdateInterval == 0 {
		c.UpdateInterval = DefaultUpdateInterval
	}
	if c.StateFile == "" {
		c.StateFile = DefaultStateFile
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LogDir == "" {
		c.LogDir = "logs"
	}

	e := &c.Embed
	if e.Username == "" {
		e.Username = "Minecraft Status Bot"
	}
	if e.AvatarURL == "" {
		e.AvatarURL = "https://www.minecraft.net/content/dam/minecraftnet/games/minecraft/logos/Homepage_Gameplay-Trailer_MC-OV-logo_300x300.png"
	}
	if e.Title == "" {
		e.Title = "MINECRAFT SERVER STATUS"
	}
	if e.Footer == "" {
		e.Footer = "Magic Art Hat - Minecraft Status"
	}
	if e.Version == "" {
		e.Version = "1.21.5"
	}
	if e.Whitelist == "" {
		e.Whitelist = "The server uses a whitelist. Ask an admin to be added."
	}
	if e.Links == nil {
		e.Links = []Link{
			{Name: "VOICE CHAT - Modrinth", Label: "PLASMO VOICE", URL: "https://modrinth.com/plugin/plasmo-voice"},
			{Name: "VOICE CHAT - CurseForge", Label: "PLASMO VOICE", URL: "https://www.curseforge.com/minecraft/mc-mods/plasmo-voice"},
		}
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// the scheduler ticks in whole seconds
	_ = v.RegisterValidation("whole_seconds", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%1000 == 0
	})
	return v
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	var all error
	for _, fe := range verrs {
		all = multierr.Append(all, fieldError(fe))
	}
	return all
}

func fieldError(fe validator.FieldError) error {
	name := fe.Namespace()
	switch fe.Field() {
	case "WebhookURL":
		name = "DISCORD_WEBHOOK_URL"
	case "Domain":
		name = "MINECRAFT_DOMAIN"
	case "UpdateInterval":
		name = "UPDATE_INTERVAL"
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "min":
		return fmt.Errorf("%s must be at least %s", name, fe.Param())
	case "whole_seconds":
		return fmt.Errorf("%s must be a multiple of 1000", name)
	default:
		return fmt.Errorf("%s is not a valid %s", name, fe.Tag())
	}
}
