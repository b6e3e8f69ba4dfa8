// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/devca/src/internal/config"
)

func TestLoad_WritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".devca")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, "Simple CA", cfg.CA.Organization)
	assert.Empty(t, cfg.CA.Country)
	assert.Equal(t, config.Validity{Root: 7200, Intermediate: 3600, Server: 370}, cfg.Validity)
	assert.Equal(t, config.Keys{CA: 4096, Server: 2048}, cfg.Keys)

	data, err := os.ReadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[validity]")
	assert.Contains(t, string(data), "Simple CA")

	again, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, again, "reloading the written defaults must be stable")
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `
[ca]
country = "AU"
state_or_province = "TAS"
locality = "Hobart"
organization = "Acme Dev"

[validity]
server = 90
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, config.CA{
		Country:         "AU",
		StateOrProvince: "TAS",
		Locality:        "Hobart",
		Organization:    "Acme Dev",
	}, cfg.CA)
	assert.Equal(t, 90, cfg.Validity.Server)
	assert.Equal(t, 7200, cfg.Validity.Root, "missing keys keep their defaults")

	root := cfg.RootName()
	assert.Equal(t, "Acme Dev Root CA", root.CommonName)
	assert.Equal(t, "TAS", root.Province)
	assert.Equal(t, "AU", root.Country)
	assert.Equal(t, "Acme Dev Intermediate CA", cfg.IntermediateName().CommonName)
	assert.Empty(t, cfg.Name().CommonName)
}

func TestLoad_Environment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.HomeEnv, dir)
	t.Setenv("DEVCA_CA_ORGANIZATION", "Env Org")
	t.Setenv("DEVCA_CA_STATE_OR_PROVINCE", "Jawa Barat")
	t.Setenv("DEVCA_KEYS_CA", "2048")
	t.Setenv("DEVCA_VALIDITY_INTERMEDIATE", "2500")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "Env Org", cfg.CA.Organization)
	assert.Equal(t, "Jawa Barat", cfg.CA.StateOrProvince)
	assert.Equal(t, 2048, cfg.Keys.CA)
	assert.Equal(t, 2500, cfg.Validity.Intermediate)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		expected error
	}{
		{
			name:     "Malformed TOML",
			content:  "[ca\norganization = ",
			expected: config.ErrLoad,
		},
		{
			name:     "Zero Validity",
			content:  "[validity]\nserver = 0\n",
			expected: config.ErrInvalid,
		},
		{
			name:     "Small Key",
			env:      map[string]string{"DEVCA_KEYS_SERVER": "1024"},
			expected: config.ErrInvalid,
		},
		{
			name:     "Empty Organization",
			content:  "[ca]\norganization = \"  \"\n",
			expected: config.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(tt.content), 0o644))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load(dir)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestLoad_DirIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := config.Load(path)
	assert.ErrorIs(t, err, config.ErrLoad)
}

func TestDir(t *testing.T) {
	t.Run("Home Override", func(t *testing.T) {
		t.Setenv(config.HomeEnv, "/srv/devca")

		dir, err := config.Dir()
		require.NoError(t, err)
		assert.Equal(t, "/srv/devca", dir)
	})

	t.Run("User Home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(config.HomeEnv, "")
		t.Setenv("HOME", home)

		dir, err := config.Dir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".devca"), dir)
	})

	t.Run("No Home", func(t *testing.T) {
		t.Setenv(config.HomeEnv, "")
		t.Setenv("HOME", "")

		_, err := config.Dir()
		assert.ErrorIs(t, err, config.ErrNoHomeDir)
	})
}
