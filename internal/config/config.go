package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time is used for duration-typed settings
)

// Config holds all runtime configuration of the booking service. Each
// field corresponds to an environment variable. The signing secret and
// the entitlement token TTL are explicit here so they can be passed
// into the token issuer at construction instead of being read as
// ambient state.
type Config struct {
    Env             string        // application environment (e.g. "dev", "prod")
    Port            string        // HTTP port to listen on
    DBUser          string        // database username
    DBPass          string        // database password (optional)
    DBHost          string        // database host address
    DBPort          string        // database port number
    DBName          string        // database name
    JWTSecret       string        // secret shared with the estimator, signs every token
    AccessTTLMin    int           // session access token time-to-live in minutes
    TokenTTLSeconds int           // entitlement token time-to-live in seconds (35 in the reference deployment)
    ClaimTimeout    time.Duration // bound on lock waits inside claim/release transactions
}

// EstimatorConfig holds the runtime configuration of the discount
// estimator. The estimator shares only the JWT secret with the booking
// service; it has no database settings at all.
type EstimatorConfig struct {
    Env       string // application environment
    Port      string // HTTP port to listen on
    JWTSecret string // secret used to verify entitlement tokens
}

// Load reads the booking service configuration. Required variables are
// enforced by must() and missing values cause the program to exit with
// a fatal log message.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),
        Port:            must("APP_PORT"),
        DBUser:          must("DB_USER"),
        DBPass:          os.Getenv("DB_PASS"), // empty allowed
        DBHost:          must("DB_HOST"),
        DBPort:          must("DB_PORT"),
        DBName:          must("DB_NAME"),
        JWTSecret:       must("JWT_SECRET"),
        AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),
        TokenTTLSeconds: mustInt("ENTITLEMENT_TOKEN_TTL_SEC"),
        ClaimTimeout:    envDur("CLAIM_TIMEOUT", 3*time.Second),
    }
}

// LoadEstimator reads the estimator configuration.
func LoadEstimator() EstimatorConfig {
    return EstimatorConfig{
        Env:       must("APP_ENV"),
        Port:      must("APP_PORT"),
        JWTSecret: must("JWT_SECRET"),
    }
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
