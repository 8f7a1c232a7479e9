package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   storage driver: postgres, mongo or memory
//	-d string   PostgreSQL DSN
//	-u string   MongoDB URI
//	-n string   MongoDB database name
//	-s string   activation token HMAC secret
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-v int      activation token validity, minutes
//	-l string   log level
//	-o string   OTLP/HTTP trace endpoint
//
// Durations are given in whole minutes.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d", "-u", "-n", "-s", "-t", "-r", "-v", "-l", "-o"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "m", config.StorageDriver, "storage driver (postgres|mongo|memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "u", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "MongoDB database")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	access := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refresh := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	activation := fs.Int("v", int(config.ActivationValidityDuration.Minutes()), "activation token validity (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.OTLPEndpoint, "o", config.OTLPEndpoint, "OTLP/HTTP trace endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// only touch durations that were actually passed, so sub-minute values
	// from env or JSON survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
		case "v":
			config.ActivationValidityDuration = time.Duration(*activation) * time.Minute
		}
	})
	return nil
}
