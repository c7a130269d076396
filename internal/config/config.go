// Package config loads runtime settings from .env, an optional YAML file and
// the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/artifact"
	"github.com/BerylCAtieno/rankrent-factory/internal/planner"
	"github.com/BerylCAtieno/rankrent-factory/internal/provider"
	"github.com/BerylCAtieno/rankrent-factory/internal/session"
	"github.com/BerylCAtieno/rankrent-factory/internal/store"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPort = "8080"

type Config struct {
	Port            string         `yaml:"port"`
	PublicURL       string         `yaml:"publicURL"`
	APIKey          string         `yaml:"apiKey"`
	Provider        string         `yaml:"provider"`
	ReconModel      string         `yaml:"reconModel"`
	SynthesisModel  string         `yaml:"synthesisModel"`
	SessionCapacity int            `yaml:"sessionCapacity"`
	Store           StoreConfig    `yaml:"store"`
	Artifact        ArtifactConfig `yaml:"artifact"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ArtifactConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
}

// S3 converts the settings for artifact.NewS3Store.
func (a ArtifactConfig) S3() artifact.S3Config {
	return artifact.S3Config{
		Endpoint:  a.Endpoint,
		Region:    a.Region,
		AccessKey: a.AccessKey,
		SecretKey: a.SecretKey,
		Bucket:    a.Bucket,
		UseSSL:    a.UseSSL,
	}
}

// Planner returns the orchestrator settings.
func (c *Config) Planner() planner.Config {
	return planner.Config{
		APIKey:         c.APIKey,
		Keyless:        c.Provider == provider.BackendOffline,
		ReconModel:     c.ReconModel,
		SynthesisModel: c.SynthesisModel,
	}
}

func defaults() *Config {
	return &Config{
		Port:            DefaultPort,
		Provider:        provider.BackendGenAI,
		ReconModel:      planner.DefaultModel,
		SynthesisModel:  planner.DefaultModel,
		SessionCapacity: session.DefaultCapacity,
		Store:           StoreConfig{Driver: store.DriverMemory},
		Artifact:        ArtifactConfig{Region: "us-east-1", UseSSL: true},
	}
}

// Load reads .env if present, then CONFIG_FILE, then environment variables.
// A missing API key is not an error here; runs report it instead.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Port = strings.TrimPrefix(strings.TrimSpace(cfg.Port), ":")
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.APIKey = firstNonEmpty(env("GEMINI_API_KEY"), env("API_KEY"), c.APIKey)
	c.Provider = firstNonEmpty(env("PROVIDER"), c.Provider)
	c.ReconModel = firstNonEmpty(env("RECON_MODEL"), c.ReconModel)
	c.SynthesisModel = firstNonEmpty(env("SYNTHESIS_MODEL"), c.SynthesisModel)
	c.Port = firstNonEmpty(env("PORT"), c.Port)
	c.PublicURL = firstNonEmpty(env("PUBLIC_BASE_URL"), c.PublicURL)
	c.Store.Driver = firstNonEmpty(env("STORE_DRIVER"), c.Store.Driver)
	c.Store.DSN = firstNonEmpty(env("STORE_DSN"), c.Store.DSN)
	c.Artifact.Endpoint = firstNonEmpty(env("ARTIFACT_S3_ENDPOINT"), c.Artifact.Endpoint)
	c.Artifact.Region = firstNonEmpty(env("ARTIFACT_S3_REGION"), c.Artifact.Region)
	c.Artifact.AccessKey = firstNonEmpty(env("ARTIFACT_S3_ACCESS_KEY"), c.Artifact.AccessKey)
	c.Artifact.SecretKey = firstNonEmpty(env("ARTIFACT_S3_SECRET_KEY"), c.Artifact.SecretKey)
	c.Artifact.Bucket = firstNonEmpty(env("ARTIFACT_S3_BUCKET"), c.Artifact.Bucket)

	if raw := env("SESSION_CAPACITY"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid SESSION_CAPACITY %q", raw)
		}
		c.SessionCapacity = v
	}
	if raw := env("ARTIFACT_S3_USE_SSL"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid ARTIFACT_S3_USE_SSL %q: %w", raw, err)
		}
		c.Artifact.UseSSL = v
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
