package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taxiikeeper/internal/flagx"
	"github.com/dmitrijs2005/taxiikeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// "15m" style strings or integer nanoseconds via timex.Duration.
type JsonConfig struct {
	EndpointAddrHTTP   string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC   string          `json:"endpoint_addr_grpc"`
	DatabaseDSN        string          `json:"database_dsn"`
	APIRootPath        string          `json:"api_root_path"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Contact            string          `json:"contact"`
	DefaultSpecVersion string          `json:"default_spec_version"`
	MaxPageSize        int             `json:"max_page_size"`
	MaxContentLength   int64           `json:"max_content_length"`
	LogFormat          string          `json:"log_format"`
	S3RootUser         string          `json:"s3_root_user"`
	S3RootPassword     string          `json:"s3_root_password"`
	S3Bucket           string          `json:"s3_bucket"`
	S3Region           string          `json:"s3_region"`
	S3BaseEndpoint     string          `json:"s3_base_endpoint"`
	S3Prefix           string          `json:"s3_prefix"`
	HydrationInterval  *timex.Duration `json:"hydration_interval"`
}

// parseJson overlays values from the JSON file named by -c/-config onto config.
// Keys missing from the file leave the current value alone. An unreadable or
// malformed file panics, as does a bad flag.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.APIRootPath, c.APIRootPath)
	setString(&config.Title, c.Title)
	setString(&config.Description, c.Description)
	setString(&config.Contact, c.Contact)
	setString(&config.DefaultSpecVersion, c.DefaultSpecVersion)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3Prefix, c.S3Prefix)

	if c.MaxPageSize != 0 {
		config.MaxPageSize = c.MaxPageSize
	}
	if c.MaxContentLength != 0 {
		config.MaxContentLength = c.MaxContentLength
	}
	if c.HydrationInterval != nil {
		config.HydrationInterval = c.HydrationInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
