// Package config provides functionality for managing configuration options
// for the application using .env files, command-line flags, a JSON or YAML
// config file and environment variables.
package config

import (
	"cmp"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// Backend selects how policies are read: "rest" or "postgres".
	Backend string

	// SupabaseURL is the data service project URL.
	SupabaseURL string

	// SupabaseAnonKey is the public anonymous API key.
	SupabaseAnonKey string

	// DatabaseDSN holds the database connection string for the postgres backend.
	DatabaseDSN string

	// PublicURL is the externally visible site root used in share links.
	PublicURL string

	// AdClient is the ad network publisher id; empty disables the ad script.
	AdClient string

	// LogLevel is the minimum zap level.
	LogLevel string

	// RequestTimeout bounds each call to the data service.
	RequestTimeout time.Duration

	// InitSchema creates the policies and feedback tables on startup
	// (postgres backend only).
	InitSchema bool

	// Config is the path to the Config file.
	Config string
}

// Default returns the built-in defaults.
func Default() *Options {
	return &Options{
		Port:           "localhost:8080",
		Backend:        BackendREST,
		LogLevel:       "info",
		RequestTimeout: 10 * time.Second,
		Config:         "config.json",
	}
}

// options holds the current configuration values.
var options = Default()

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", options.Port, "run on ip:port server")
	flag.StringVar(&options.Backend, "b", options.Backend, "policy store backend: rest | postgres")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
	flag.BoolVar(&options.InitSchema, "init-schema", false, "create the policies and feedback tables (postgres backend)")
	flag.StringVar(&options.Config, "config", options.Config, "path to config file")
	flag.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
}

// Parse loads .env, parses the command-line flags, reads the config file
// and applies environment overrides, in that order. It returns a pointer
// to the Options struct containing the parsed configuration values.
func Parse() *Options {
	loadDotEnv()

	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if err := options.LoadFile(options.Config); err != nil {
		log.Fatalf("error while reading config file: %v", err)
	}

	options.ApplyEnv()

	if err := options.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return options
}

// Load builds Options without touching the command line: defaults, then
// the config file at path (or $CONFIG when path is empty), then the
// environment. Front ends with their own flag parsing use it instead of
// Parse.
func Load(path string) (*Options, error) {
	loadDotEnv()

	o := Default()
	if path == "" {
		path = cmp.Or(os.Getenv("CONFIG"), o.Config)
	}
	o.Config = path

	if err := o.LoadFile(path); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	o.ApplyEnv()
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return o, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("error while reading .env: %v", err)
	}
}

// LoadFile merges the file at path into o. JSON is assumed unless the
// extension is .yaml or .yml. A missing file is ignored.
func (o *Options) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var raw fileOptions
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return raw.mergeInto(o)
}

// ApplyEnv overrides o with any of the supported environment variables.
func (o *Options) ApplyEnv() {
	setFromEnv(&o.Port, "SERVER_ADDRESS")
	setFromEnv(&o.Backend, "STORE_BACKEND")
	setFromEnv(&o.SupabaseURL, "SUPABASE_URL")
	setFromEnv(&o.SupabaseAnonKey, "SUPABASE_ANON_KEY")
	setFromEnv(&o.DatabaseDSN, "DATABASE_DSN")
	setFromEnv(&o.PublicURL, "PUBLIC_URL")
	setFromEnv(&o.AdClient, "AD_CLIENT")
	setFromEnv(&o.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("INIT_SCHEMA"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			o.InitSchema = b
		} else {
			log.Printf("ignoring INIT_SCHEMA=%q: %v", v, err)
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			o.RequestTimeout = d
		} else {
			log.Printf("ignoring REQUEST_TIMEOUT=%q: %v", v, err)
		}
	}
}

// Validate checks that the selected backend has what it needs.
func (o *Options) Validate() error {
	switch o.Backend {
	case BackendREST:
		if o.SupabaseURL == "" || o.SupabaseAnonKey == "" {
			return fmt.Errorf("backend %q requires SUPABASE_URL and SUPABASE_ANON_KEY", o.Backend)
		}
	case BackendPostgres:
		if o.DatabaseDSN == "" {
			return fmt.Errorf("backend %q requires a database DSN", o.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", o.Backend)
	}
	if o.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", o.RequestTimeout)
	}
	return nil
}

// fileOptions mirrors Options with optional fields so that a config file
// only overrides what it sets. Durations are written as strings ("5s").
type fileOptions struct {
	Port            *string `json:"address" yaml:"address"`
	Backend         *string `json:"backend" yaml:"backend"`
	SupabaseURL     *string `json:"supabase_url" yaml:"supabase_url"`
	SupabaseAnonKey *string `json:"supabase_anon_key" yaml:"supabase_anon_key"`
	DatabaseDSN     *string `json:"database_dsn" yaml:"database_dsn"`
	PublicURL       *string `json:"public_url" yaml:"public_url"`
	AdClient        *string `json:"ad_client" yaml:"ad_client"`
	LogLevel        *string `json:"log_level" yaml:"log_level"`
	RequestTimeout  *string `json:"request_timeout" yaml:"request_timeout"`
	InitSchema      *bool   `json:"init_schema" yaml:"init_schema"`
}

func (f fileOptions) mergeInto(o *Options) error {
	for dst, src := range map[*string]*string{
		&o.Port:            f.Port,
		&o.Backend:         f.Backend,
		&o.SupabaseURL:     f.SupabaseURL,
		&o.SupabaseAnonKey: f.SupabaseAnonKey,
		&o.DatabaseDSN:     f.DatabaseDSN,
		&o.PublicURL:       f.PublicURL,
		&o.AdClient:        f.AdClient,
		&o.LogLevel:        f.LogLevel,
	} {
		if src != nil {
			*dst = *src
		}
	}
	if f.InitSchema != nil {
		o.InitSchema = *f.InitSchema
	}
	if f.RequestTimeout != nil {
		d, err := time.ParseDuration(*f.RequestTimeout)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		o.RequestTimeout = d
	}
	return nil
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
