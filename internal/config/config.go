/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, so older builds tolerate newer files.

type FontsConfig struct {
	Madinah string `yaml:"madinah"` // path to the Madinah-style font file
	IndoPak string `yaml:"indopak"` // path to the IndoPak-style font file
}

type LayoutConfig struct {
	Variant   string `yaml:"variant"`   // "madinah" | "indopak"
	Justify   string `yaml:"justify"`   // "stretch" | "scale_only"
	FontScale int    `yaml:"font_scale"` // rendered pixels per em, informational for exporters
}

type CacheConfig struct {
	ViewerPages int    `yaml:"viewer_pages"` // in-memory page view capacity
	LayoutDB    string `yaml:"layout_db"`    // path to the persistent layout cache (empty disables)
	LayoutDBMax int    `yaml:"layout_db_max"` // max cached layouts kept in the DB
}

type TextServiceConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int               `yaml:"config_version"`
	Fonts         FontsConfig       `yaml:"fonts"`
	Layout        LayoutConfig      `yaml:"layout"`
	Cache         CacheConfig       `yaml:"cache"`
	TextService   TextServiceConfig `yaml:"text_service"`
	Logging       LoggingConfig     `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Fonts:         FontsConfig{},
		Layout:        LayoutConfig{Variant: "madinah", Justify: "stretch", FontScale: 48},
		Cache:         CacheConfig{ViewerPages: 5, LayoutDB: "", LayoutDBMax: 128},
		TextService:   TextServiceConfig{BaseURL: "http://localhost:8080", TimeoutMs: 15000, TLSInsecure: false},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvFontMadinah      = "MSHF_FONT_MADINAH"
	EnvFontIndoPak      = "MSHF_FONT_INDOPAK"
	EnvLayoutVariant    = "MSHF_VARIANT"
	EnvServiceURL       = "MSHF_SERVICE_URL"
	EnvServiceTimeoutMs = "MSHF_SERVICE_TIMEOUT_MS"
	EnvServiceTLSInsec  = "MSHF_TLS_INSECURE"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "MSHF_LOG_LEVEL"
	EnvLogFormat = "MSHF_LOG_FORMAT"
	EnvLogSource = "MSHF_LOG_SOURCE"
	EnvLogFile   = "MSHF_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "MushafKit"
	keyringToken   = "text_service_token"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = &osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements TokenStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (k *osKeyring) Get(service, key string) (string, error) {
	return keyring.Get(service, key)
}
func (k *osKeyring) Set(service, key, value string) error {
	return keyring.Set(service, key, value)
}
func (k *osKeyring) Delete(service, key string) error {
	return keyring.Delete(service, key)
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "MushafKit")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "MushafKit")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "mushafkit")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
// It also loads the text-service token from keyring (not kept inside the struct; returned separately).
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	// token from keyring
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into OS keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.Fonts.Madinah) != "" {
		dst.Fonts.Madinah = strings.TrimSpace(src.Fonts.Madinah)
	}
	if strings.TrimSpace(src.Fonts.IndoPak) != "" {
		dst.Fonts.IndoPak = strings.TrimSpace(src.Fonts.IndoPak)
	}
	if src.Layout.Variant != "" {
		dst.Layout.Variant = strings.ToLower(strings.TrimSpace(src.Layout.Variant))
	}
	if src.Layout.Justify != "" {
		dst.Layout.Justify = strings.ToLower(strings.TrimSpace(src.Layout.Justify))
	}
	if src.Layout.FontScale != 0 {
		dst.Layout.FontScale = src.Layout.FontScale
	}
	if src.Cache.ViewerPages != 0 {
		dst.Cache.ViewerPages = src.Cache.ViewerPages
	}
	if strings.TrimSpace(src.Cache.LayoutDB) != "" {
		dst.Cache.LayoutDB = strings.TrimSpace(src.Cache.LayoutDB)
	}
	if src.Cache.LayoutDBMax != 0 {
		dst.Cache.LayoutDBMax = src.Cache.LayoutDBMax
	}
	if src.TextService.BaseURL != "" {
		dst.TextService.BaseURL = src.TextService.BaseURL
	}
	if src.TextService.TimeoutMs != 0 {
		dst.TextService.TimeoutMs = src.TextService.TimeoutMs
	}
	dst.TextService.TLSInsecure = src.TextService.TLSInsecure
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvFontMadinah)); v != "" {
		cfg.Fonts.Madinah = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontIndoPak)); v != "" {
		cfg.Fonts.IndoPak = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLayoutVariant)); v != "" {
		cfg.Layout.Variant = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvServiceURL)); v != "" {
		cfg.TextService.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvServiceTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TextService.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvServiceTLSInsec)); v != "" {
		lv := strings.ToLower(v)
		cfg.TextService.TLSInsecure = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "fonts.madinah":
		if os.Getenv(EnvFontMadinah) != "" {
			return EnvFontMadinah, true
		}
	case "fonts.indopak":
		if os.Getenv(EnvFontIndoPak) != "" {
			return EnvFontIndoPak, true
		}
	case "layout.variant":
		if os.Getenv(EnvLayoutVariant) != "" {
			return EnvLayoutVariant, true
		}
	case "text_service.base_url":
		if os.Getenv(EnvServiceURL) != "" {
			return EnvServiceURL, true
		}
	case "text_service.timeout_ms":
		if os.Getenv(EnvServiceTimeoutMs) != "" {
			return EnvServiceTimeoutMs, true
		}
	case "text_service.tls_insecure":
		if os.Getenv(EnvServiceTLSInsec) != "" {
			return EnvServiceTLSInsec, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}

// EffectiveTimeout returns the service timeout as a duration-like milliseconds string for http.Client.
func (t TextServiceConfig) EffectiveTimeout() string {
	if t.TimeoutMs <= 0 {
		return fmt.Sprintf("%dms", Defaults().TextService.TimeoutMs)
	}
	return fmt.Sprintf("%dms", t.TimeoutMs)
}

// FontPath returns the configured font file for the given variant name.
func (f FontsConfig) FontPath(variant string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case "madinah":
		if f.Madinah == "" {
			return "", errors.New("no madinah font configured")
		}
		return f.Madinah, nil
	case "indopak":
		if f.IndoPak == "" {
			return "", errors.New("no indopak font configured")
		}
		return f.IndoPak, nil
	default:
		return "", fmt.Errorf("unknown mushaf variant %q", variant)
	}
}
