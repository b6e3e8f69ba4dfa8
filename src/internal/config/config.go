// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/H0llyW00dzZ/devca/src/internal/keys"
	x509name "github.com/H0llyW00dzZ/devca/src/internal/x509/name"
)

const (
	// DirName is the configuration directory created under the user's home.
	DirName = ".devca"

	// FileName is the configuration file inside the configuration directory.
	FileName = "config.toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "DEVCA_"

	// HomeEnv relocates the configuration directory. It is read by [Dir] and
	// is not a configuration key.
	HomeEnv = EnvPrefix + "HOME"

	// DefaultOrganization names the CA when the configuration does not.
	DefaultOrganization = "Simple CA"
)

var (
	// ErrNoHomeDir indicates that neither [HomeEnv] nor the user's home
	// directory could be resolved.
	ErrNoHomeDir = errors.New("config: cannot resolve home directory")

	// ErrLoad indicates that the configuration directory or file could not
	// be read, created or parsed.
	ErrLoad = errors.New("config: failed to load configuration")

	// ErrInvalid indicates a configuration value outside its allowed range.
	ErrInvalid = errors.New("config: invalid configuration")
)

// CA holds the identity attributes shared by every certificate the
// authority issues. Server commands may override them per certificate.
type CA struct {
	Country          string `koanf:"country"`
	StateOrProvince  string `koanf:"state_or_province"`
	Locality         string `koanf:"locality"`
	Organization     string `koanf:"organization"`
	OrganizationUnit string `koanf:"organization_unit"`
}

// Validity holds the lifetime of each tier in days.
type Validity struct {
	Root         int `koanf:"root"`
	Intermediate int `koanf:"intermediate"`
	Server       int `koanf:"server"`
}

// Keys holds the RSA modulus size of each key class in bits.
type Keys struct {
	CA     int `koanf:"ca"`
	Server int `koanf:"server"`
}

// Config is the resolved configuration of one configuration directory.
//
// Fields:
//   - CA: Identity attributes from the [ca] section
//   - Validity: Lifetimes from the [validity] section
//   - Keys: Modulus sizes from the [keys] section
//   - Dir: The directory the configuration was loaded from; every
//     generated file lives here
type Config struct {
	CA       CA       `koanf:"ca"`
	Validity Validity `koanf:"validity"`
	Keys     Keys     `koanf:"keys"`
	Dir      string   `koanf:"-"`
}

// defaults mirrors the file written on first run.
func defaults() map[string]any {
	return map[string]any{
		"ca.country":            "",
		"ca.state_or_province":  "",
		"ca.locality":           "",
		"ca.organization":       DefaultOrganization,
		"ca.organization_unit":  "",
		"validity.root":         7200,
		"validity.intermediate": 3600,
		"validity.server":       370,
		"keys.ca":               keys.CABits,
		"keys.server":           keys.ServerBits,
	}
}

// Dir resolves the configuration directory: [HomeEnv] when set, otherwise
// [DirName] under the user's home directory. It does not create anything.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: %v", ErrNoHomeDir, err)
	}
	return filepath.Join(home, DirName), nil
}

// Load reads the configuration in dir, creating the directory and writing a
// default [FileName] when either is missing.
//
// Values are layered in increasing priority:
//  1. Built-in defaults
//  2. The TOML file
//  3. Environment variables prefixed with [EnvPrefix], where the first
//     underscore after the prefix separates section and key
//     (DEVCA_CA_ORGANIZATION sets ca.organization)
//
// Parameters:
//   - dir: The configuration directory, usually from [Dir]
//
// Returns:
//   - *Config: The validated configuration with Dir set
//   - error: [ErrLoad] wrapping the I/O or parse error, or [ErrInvalid]
func Load(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("%w: defaults: %v", ErrLoad, err)
	}

	path := filepath.Join(dir, FileName)
	switch _, err := os.Stat(path); {
	case errors.Is(err, fs.ErrNotExist):
		if err := writeDefaults(k, path); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	default:
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrLoad, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps DEVCA_SECTION_KEY to section.key. Variables without a section,
// such as [HomeEnv], are skipped.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok || key == "" {
		return ""
	}
	return section + "." + key
}

func writeDefaults(k *koanf.Koanf, path string) error {
	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return fmt.Errorf("%w: encode defaults: %v", ErrLoad, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CA.Organization) == "" {
		return fmt.Errorf("%w: ca.organization must not be empty", ErrInvalid)
	}

	for _, v := range []struct {
		key   string
		value int
		min   int
	}{
		{"validity.root", c.Validity.Root, 1},
		{"validity.intermediate", c.Validity.Intermediate, 1},
		{"validity.server", c.Validity.Server, 1},
		{"keys.ca", c.Keys.CA, keys.MinBits},
		{"keys.server", c.Keys.Server, keys.MinBits},
	} {
		if v.value < v.min {
			return fmt.Errorf("%w: %s must be at least %d, got %d", ErrInvalid, v.key, v.min, v.value)
		}
	}
	return nil
}

// Name returns the CA identity without a common name.
func (c *Config) Name() x509name.Name {
	return x509name.Name{
		Country:            c.CA.Country,
		Province:           c.CA.StateOrProvince,
		Locality:           c.CA.Locality,
		Organization:       c.CA.Organization,
		OrganizationalUnit: c.CA.OrganizationUnit,
	}
}

// RootName returns the root subject, "{organization} Root CA".
func (c *Config) RootName() x509name.Name {
	return c.Name().WithCommonName(c.CA.Organization + " Root CA")
}

// IntermediateName returns the intermediate subject,
// "{organization} Intermediate CA".
func (c *Config) IntermediateName() x509name.Name {
	return c.Name().WithCommonName(c.CA.Organization + " Intermediate CA")
}

// Layout returns the file layout rooted at the configuration directory.
func (c *Config) Layout() Layout {
	return Layout{Dir: c.Dir}
}
