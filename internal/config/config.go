package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The configuration is built exactly once in main
// and passed into the token service, repositories and middleware; business
// logic never reads the environment on its own.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign access tokens
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Token TTL and bcrypt
// cost fall back to sensible defaults when unset.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),                   // environment (dev/test/prod)
		Port:         must("APP_PORT"),                  // port to bind the HTTP server
		DBUser:       must("DB_USER"),                   // database user
		DBPass:       os.Getenv("DB_PASS"),              // database password (empty allowed)
		DBHost:       must("DB_HOST"),                   // database host
		DBPort:       must("DB_PORT"),                   // database port
		DBName:       must("DB_NAME"),                   // database name
		JWTSecret:    must("JWT_SECRET"),                // secret used for signing tokens
		AccessTTLMin: intOr("ACCESS_TOKEN_TTL_MIN", 60), // token lifetime, defaults to one hour
		BcryptCost:   intOr("BCRYPT_COST", 10),          // bcrypt cost factor
	}
}

// IsProd reports whether the application runs in a production environment.
// Handlers use it to decide whether internal error details may be exposed.
func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr retrieves an integer environment variable, returning def when the
// variable is unset.  An unparsable value is treated as a configuration
// error and terminates the process.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
