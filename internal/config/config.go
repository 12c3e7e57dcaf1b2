package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models clipdesk.yml.
type Config struct {
	Studio struct {
		Name string `yaml:"name"`
	} `yaml:"studio"`
	Intake struct {
		NeedTypes    []string `yaml:"need_types"`
		Platforms    []string `yaml:"platforms"`
		Turnarounds  []string `yaml:"turnarounds"`
		BudgetRanges []string `yaml:"budget_ranges"`
	} `yaml:"intake"`
	Classifier struct {
		EliteKeywords  []string `yaml:"elite_keywords"`
		BasicVolumeMax int      `yaml:"basic_volume_max"`
		EliteVolumeMin int      `yaml:"elite_volume_min"`
	} `yaml:"classifier"`
	Auth struct {
		CookieName      string   `yaml:"cookie_name"`
		SessionTTLHours int      `yaml:"session_ttl_hours"`
		AllowedOrigins  []string `yaml:"allowed_origins"`
		SeedAdminEmail  string   `yaml:"seed_admin_email"`
	} `yaml:"auth"`
}

// Load reads and validates config from the workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the default config if the file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if len(c.Intake.NeedTypes) == 0 {
		return fmt.Errorf("config.intake.need_types is required")
	}
	if len(c.Intake.Platforms) == 0 {
		return fmt.Errorf("config.intake.platforms is required")
	}
	if len(c.Intake.Turnarounds) == 0 {
		return fmt.Errorf("config.intake.turnarounds is required")
	}
	if len(c.Intake.BudgetRanges) == 0 {
		return fmt.Errorf("config.intake.budget_ranges is required")
	}
	for _, kw := range c.Classifier.EliteKeywords {
		if kw == "" {
			return fmt.Errorf("config.classifier.elite_keywords contains an empty keyword")
		}
	}
	if c.Classifier.BasicVolumeMax <= 0 {
		return fmt.Errorf("config.classifier.basic_volume_max must be positive")
	}
	if c.Classifier.EliteVolumeMin <= c.Classifier.BasicVolumeMax {
		return fmt.Errorf("config.classifier.elite_volume_min must exceed basic_volume_max")
	}
	if c.Auth.SessionTTLHours <= 0 {
		return fmt.Errorf("config.auth.session_ttl_hours must be positive")
	}
	if c.Auth.CookieName == "" {
		return fmt.Errorf("config.auth.cookie_name is required")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "clipdesk.yml")
}

// Default returns the built-in default Config.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GenerateDefault returns the default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

const defaultTemplate = `studio:
  name: clipdesk

intake:
  need_types: [Repurpose, Social Edit, Smart Cut, Captions, Other]
  platforms: [TikTok, IG, Shorts]
  turnarounds: ["24-48h", "Rush 12h", "Custom"]
  budget_ranges: ["<200", "200-500", "500-1k", "1k+"]

classifier:
  elite_keywords:
    - motion graphics
    - after effects
    - multi-cam
    - sound design
    - multicam
  basic_volume_max: 5
  elite_volume_min: 16

auth:
  cookie_name: clipdesk_session
  session_ttl_hours: 24
  allowed_origins:
    - http://localhost:3000
    - http://localhost:5173
  seed_admin_email: admin@clipdesk.local
`
