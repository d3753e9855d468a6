// Package config provides configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix marks environment variables that override configuration keys.
const EnvPrefix = "STOREFRONT_"

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"
)

// Listing sources.
const (
	SourceCatalog  = "catalog"
	SourceCommerce = "commerce"
)

// Hook failure modes.
const (
	HookFailureAbort  = "abort"
	HookFailureWarn   = "warn"
	HookFailureIgnore = "ignore"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

var (
	config    map[string]string
	configMap map[string]string
	mu        sync.RWMutex
)

func init() {
	initValidators()
}

// Load initializes configuration.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	configMap = make(map[string]string)

	setDefaults()
	loadDotEnv()
	loadFromEnv()
	loadFromFile()
	// Re-apply environment variable overrides so env wins over the file
	loadFromEnv()
	validate()
	computeDirs()
	createSampleConfig()
}

// reset clears the loaded configuration. Used by tests.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	config = nil
	configMap = nil
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	configDir := filepath.Join(xdgConfigHome, "storefront")
	stateDir := filepath.Join(xdgStateHome, "storefront")

	setDefault("config_dir", configDir)
	setDefault("state_dir", stateDir)
	setDefault("catalog_path", "")
	setDefault("source", SourceCatalog)
	setDefault("commerce_endpoint", "http://localhost:8000/graphql/")
	setDefault("commerce_channel", "default-channel")
	setDefault("commerce_page_size", "100")
	setDefault("fetch_timeout", "15s")
	setDefault("session_token", "")
	setDefault("session_secret", "")
	setDefault("cache_backend", CacheNone)
	setDefault("cache_ttl", "5m")
	setDefault("redis_addr", "localhost:6379")
	setDefault("redis_password", "")
	setDefault("redis_db", "0")
	setDefault("default_vertical", "real-estate")
	setDefault("default_tab", "explore")
	setDefault("date_field", "created")
	setDefault("debug", "false")
	setDefault("quiet", "false")
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")
	setDefault("hooks_dir", "")
	setDefault("hooks_failure_mode", HookFailureWarn)
	setDefault("hooks_async", "false")
	setDefault("hooks_async_timeout", "30s")
	setDefault("hooks_max_async", "10")
}

func setDefault(key, value string) {
	config[key] = value
	configMap[key] = value
}

// loadDotEnv loads a .env file from the working directory into the process
// environment. Variables already present in the environment are kept.
func loadDotEnv() {
	path := os.Getenv(EnvPrefix + "ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		colors.Warning(fmt.Sprintf("unable to load env file %s: %v", path, err))
	}
}

// loadFromFile reads configuration from a file.
func loadFromFile() {
	configPath := os.Getenv(EnvPrefix + "CONFIG_PATH")
	if configPath == "" {
		if configDir, ok := config["config_dir"]; ok {
			configPath = filepath.Join(configDir, "config"+FileExtTOML)
			if _, err := os.Stat(configPath); err != nil {
				configPath = ""
			}
		}
	}
	if configPath == "" {
		return
	}
	if strings.ToLower(filepath.Ext(configPath)) != FileExtTOML {
		colors.Warning(fmt.Sprintf("unsupported config file format: %s", configPath))
		return
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a TOML value to its string representation.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		switch key {
		case "config_path", "env_file":
			continue
		}
		config[key] = value
	}
}

// validate checks and normalizes configuration values using registered validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := configMap[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
			continue
		}
		config[key] = normalized
	}
}

// computeDirs fills paths derived from the directories after overrides.
func computeDirs() {
	if config["catalog_path"] == "" && config["state_dir"] != "" {
		config["catalog_path"] = filepath.Join(config["state_dir"], "catalog.db")
	}
	if config["hooks_dir"] == "" && config["config_dir"] != "" {
		config["hooks_dir"] = filepath.Join(config["config_dir"], "hooks")
	}
}

// sampleKeys are written to a fresh config file. Secrets are left out.
var sampleKeys = []string{
	"source", "catalog_path", "commerce_endpoint", "commerce_channel", "commerce_page_size",
	"fetch_timeout", "cache_backend", "cache_ttl", "redis_addr", "redis_db",
	"default_vertical", "default_tab", "date_field", "logging_enabled", "logging_level",
	"hooks_failure_mode", "hooks_async",
}

// createSampleConfig creates a sample configuration file if none exists.
func createSampleConfig() {
	configDir := config["config_dir"]
	if configDir == "" {
		return
	}
	samplePath := filepath.Join(configDir, "config"+FileExtTOML)
	if _, err := os.Stat(samplePath); err == nil {
		return
	}
	if err := os.MkdirAll(configDir, FileModeDir); err != nil {
		colors.Debug(fmt.Sprintf("unable to create config dir %s: %v", configDir, err))
		return
	}

	typed := make(map[string]interface{}, len(sampleKeys))
	for _, k := range sampleKeys {
		typed[k] = valueToInterface(configMap[k])
	}

	data, err := toml.Marshal(typed)
	if err != nil {
		colors.Warning(fmt.Sprintf("unable to marshal sample config: %v", err))
		return
	}
	header := "# storefront configuration\n# This file is in TOML format.\n# Environment variables prefixed with STOREFRONT_ take precedence.\n\n"
	if err := os.WriteFile(samplePath, append([]byte(header), data...), FileModeFile); err != nil {
		colors.Warning(fmt.Sprintf("unable to write sample config to %s: %v", samplePath, err))
	}
}

// valueToInterface converts a configuration value to a typed TOML value.
func valueToInterface(val string) interface{} {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	val := Get(key, "")
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	switch normalizeBool(Get(key, "")) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}

// GetDuration returns a configuration value as a duration, or default.
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := Get(key, "")
	if val == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return d
}

// Set overrides a single value after Load, e.g. from a command-line flag.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		config = make(map[string]string)
	}
	config[key] = value
}
