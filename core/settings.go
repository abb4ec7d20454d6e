package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jcelliott/lumber"
	"github.com/joho/godotenv"
)

const (
	defaultPrefix      = "-"
	defaultPoolSize    = 5
	defaultGuildCache  = 60
	defaultDatabaseDSN = "guildbot.db"
)

type jsonData struct {
	Development       bool     `env:"GOBOT_DEVELOPMENT"`
	AuthToken         string   `env:"GOBOT_TOKEN"`
	DefaultPrefix     string   `env:"GOBOT_PREFIX"`
	Database          string   `env:"GOBOT_DATABASE"`
	OwnerIds          []string `env:"GOBOT_OWNERS" envSeparator:","`
	PoolSize          int      `env:"GOBOT_POOL_SIZE"`
	GuildCacheSeconds int      `env:"GOBOT_GUILD_CACHE_SECONDS"`
	LogLevel          string   `env:"GOBOT_LOG_LEVEL"`
}

type SettingsStorage struct {
	data jsonData
}

var Settings = SettingsStorage{defaultData()}

func defaultData() jsonData {
	return jsonData{
		DefaultPrefix:     defaultPrefix,
		Database:          defaultDatabaseDSN,
		PoolSize:          defaultPoolSize,
		GuildCacheSeconds: defaultGuildCache,
	}
}

// LoadSettings reads the json settings file, then applies .env and environment overrides.
// A missing settings file is fine as long as the environment provides a token. On error the
// current settings are left untouched.
func LoadSettings(settingsfile string) error {
	if err := Settings.load(settingsfile); err != nil {
		return err
	}
	if Settings.data.LogLevel != "" && SetLogLevelName(Settings.data.LogLevel) {
		return nil
	}
	if !Settings.IsDevelopment() {
		SetLogLevel(lumber.INFO)
	} else {
		LogDebug("Loaded config successfully from ", settingsfile)
	}
	return nil
}

func (s *SettingsStorage) load(settingsfile string) error {
	data := defaultData()
	file, err := os.Open(settingsfile)
	switch {
	case err == nil:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&data); err != nil {
			return fmt.Errorf("parse %s: %w", settingsfile, err)
		}
	case errors.Is(err, os.ErrNotExist):
		LogWarnF("Config file %s not found, using environment only", settingsfile)
	default:
		return fmt.Errorf("open %s: %w", settingsfile, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		LogWarn("Failed to read .env file: ", err)
	}
	if err := env.Parse(&data); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	if data.AuthToken == "" {
		return errors.New("no auth token configured (AuthToken or GOBOT_TOKEN)")
	}
	s.data = normalise(data)
	return nil
}

func normalise(data jsonData) jsonData {
	if data.DefaultPrefix == "" {
		data.DefaultPrefix = defaultPrefix
	}
	if data.PoolSize <= 0 {
		data.PoolSize = defaultPoolSize
	}
	if data.GuildCacheSeconds < 0 {
		data.GuildCacheSeconds = 0
	}
	if data.Database == "" {
		data.Database = defaultDatabaseDSN
	}
	return data
}

// Get the bot auth token
func (s *SettingsStorage) AuthToken() string {
	return s.data.AuthToken
}

// Prefix every guild starts out with, and the one "<prefix>prefix" always answers to.
func (s *SettingsStorage) DefaultPrefix() string {
	return s.data.DefaultPrefix
}

// Get whether or not we're running in Development mode.
func (s *SettingsStorage) IsDevelopment() bool {
	return s.data.Development
}

// Path of the sqlite database file
func (s *SettingsStorage) Database() string {
	return s.data.Database
}

func (s *SettingsStorage) OwnerIds() []string {
	return append([]string(nil), s.data.OwnerIds...)
}

func (s *SettingsStorage) PoolSize() int {
	return s.data.PoolSize
}

func (s *SettingsStorage) GuildCacheTTL() time.Duration {
	return time.Duration(s.data.GuildCacheSeconds) * time.Second
}
