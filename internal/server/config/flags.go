package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/taxiikeeper/internal/flagx"
)

var knownFlags = []string{"-a", "-m", "-d", "-r", "-v", "-l", "-f", "-u", "-p", "-b", "-g", "-e", "-x", "-i"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-m string   gRPC health bind address (e.g., ":50051"), empty disables it
//	-d string   PostgreSQL DSN, empty selects the in-memory store
//	-r string   API root path segment
//	-v string   default spec_version token
//	-l int      maximum page size
//	-f string   log format (json, text, zerolog, pretty)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket holding STIX bundles
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x string   S3 key prefix of STIX bundles
//	-i int      hydration interval, minutes (0 runs once)
//
// Arguments are first narrowed with flagx.FilterArgs so that -c/-config and
// flags owned by other components do not abort parsing.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve TAXII on")
	fs.StringVar(&config.EndpointAddrGRPC, "m", config.EndpointAddrGRPC, "address and port of the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.APIRootPath, "r", config.APIRootPath, "API root path")
	fs.StringVar(&config.DefaultSpecVersion, "v", config.DefaultSpecVersion, "default spec_version filter")
	fs.IntVar(&config.MaxPageSize, "l", config.MaxPageSize, "maximum page size")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket with STIX bundles")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Prefix, "x", config.S3Prefix, "S3 key prefix")

	hydrationInterval := fs.Int("i", int(config.HydrationInterval.Minutes()), "hydration interval (in minutes)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	config.HydrationInterval = time.Duration(*hydrationInterval) * time.Minute
}
