package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "taxii.json", map[string]any{
		"endpoint_addr_http":   "www.example:8443",
		"endpoint_addr_grpc":   "www.example:9000",
		"database_dsn":         "postgres://db/taxii",
		"api_root_path":        "attack",
		"title":                "ATT&CK TAXII",
		"description":          "desc",
		"contact":              "ops@example.com",
		"default_spec_version": "2.0,2.1",
		"max_page_size":        250,
		"max_content_length":   1024,
		"log_format":           "text",
		"s3_root_user":         "user",
		"s3_root_password":     "password",
		"s3_bucket":            "bucket",
		"s3_region":            "region",
		"s3_base_endpoint":     "base_endpoint",
		"s3_prefix":            "stix/",
		"hydration_interval":   "15m",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "www.example:8443", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://db/taxii", cfg.DatabaseDSN)
		assert.Equal(t, "attack", cfg.APIRootPath)
		assert.Equal(t, "ATT&CK TAXII", cfg.Title)
		assert.Equal(t, "desc", cfg.Description)
		assert.Equal(t, "ops@example.com", cfg.Contact)
		assert.Equal(t, "2.0,2.1", cfg.DefaultSpecVersion)
		assert.Equal(t, 250, cfg.MaxPageSize)
		assert.Equal(t, int64(1024), cfg.MaxContentLength)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "stix/", cfg.S3Prefix)
		assert.Equal(t, 15*time.Minute, cfg.HydrationInterval)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, nil)

		var want Config
		want.LoadDefaults()
		assert.Equal(t, &want, cfg)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"s3_bucket": "stix"})

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", partial})

		assert.Equal(t, "stix", cfg.S3Bucket)
		assert.Equal(t, ":8000", cfg.EndpointAddrHTTP)
		assert.Equal(t, 1000, cfg.MaxPageSize)
	})

	t.Run("flags override json", func(t *testing.T) {
		cfg := load([]string{"-c", path, "-a", ":9999"})
		assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
		assert.Equal(t, "attack", cfg.APIRootPath)
		assert.Equal(t, 15*time.Minute, cfg.HydrationInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-config", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-c", filepath.Join(dir, "nope.json")}) })
	})
}
