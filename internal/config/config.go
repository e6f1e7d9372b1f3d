// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	// EnvConfigJSON overrides any part of the TOML config with a JSON document.
	EnvConfigJSON = "HRMS_CONFIG_JSON"

	// MinTokenSecretLen is the minimal accepted length of Auth.TokenSecret.
	MinTokenSecretLen = 32

	defaultShutDownTime  = 5
	defaultTokenTTL      = 12 * time.Hour
	defaultIssuer        = "hrms"
	defaultMaxUploadSize = 20 << 20
	maskedSecret         = "********"
)

// ReadConfig reads <path>main.toml, then applies the JSON override from the environment.
// A .env file next to the working directory is loaded first if present.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	// a missing .env is not an error
	_ = godotenv.Load()

	if _, err := toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if override := os.Getenv(EnvConfigJSON); override != "" {
		if err := json.Unmarshal([]byte(override), &c); err != nil {
			return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
		}
	}

	return c, validate(&c)
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// Masked returns a copy with passwords and secrets replaced, safe for printing.
func (c Config) Masked() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}

		return maskedSecret
	}

	c.DB.Password = mask(c.DB.Password)
	c.Auth.TokenSecret = mask(c.Auth.TokenSecret)
	c.Bootstrap.AdminPassword = mask(c.Bootstrap.AdminPassword)

	return c
}

// validate checks the settings the daemon can not start without and fills defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if len(c.Auth.TokenSecret) < MinTokenSecretLen {
		return errors.Wrap(ErrTokenSecretTooShort, invalidErrMessage)
	}

	if c.DB.GormEngine == "" {
		c.DB.GormEngine = EngineMySQL
	}

	if !slices.Contains([]string{EngineMySQL, EnginePostgres, EngineSQLite}, c.DB.GormEngine) {
		return errors.Wrap(ErrUnknownGormEngine, c.DB.GormEngine)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}

	if c.Auth.Issuer == "" {
		c.Auth.Issuer = defaultIssuer
	}

	if c.Storage.MaxUploadSize == 0 {
		c.Storage.MaxUploadSize = defaultMaxUploadSize
	}

	return nil
}
