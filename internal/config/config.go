package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and limits.
type Config struct {
    Env               string // application environment (e.g. "dev", "prod")
    Port              string // HTTP port to listen on
    DBUser            string // database username
    DBPass            string // database password (optional)
    DBHost            string // database host address
    DBPort            string // database port number
    DBName            string // database name
    JWTSecret         string // secret used to sign session tokens
    SessionTimeoutSec int    // session lifetime in seconds since login
    PasswordMinLength int    // minimum accepted password length
    BcryptCost        int    // bcrypt cost for password hashing
    ItemsPerPage      int    // default page size for admin listings
    LogDir            string // directory for activity and error log files
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional values fall
// back to the defaults the clinic system shipped with.
func Load() Config {
    return Config{
        Env:               must("APP_ENV"),                    // environment (dev/test/prod)
        Port:              must("APP_PORT"),                   // port to bind the HTTP server
        DBUser:            must("DB_USER"),                    // database user
        DBPass:            os.Getenv("DB_PASS"),               // database password (empty allowed)
        DBHost:            must("DB_HOST"),                    // database host
        DBPort:            must("DB_PORT"),                    // database port
        DBName:            must("DB_NAME"),                    // database name
        JWTSecret:         must("JWT_SECRET"),                 // secret for signing session tokens
        SessionTimeoutSec: intOr("SESSION_TIMEOUT_SEC", 3600), // one hour by default
        PasswordMinLength: intOr("PASSWORD_MIN_LENGTH", 8),    // minimum password length
        BcryptCost:        mustInt("BCRYPT_COST"),             // bcrypt cost factor
        ItemsPerPage:      intOr("ITEMS_PER_PAGE", 20),        // default listing page size
        LogDir:            strOr("LOG_DIR", "logs"),           // activity/error sink location
    }
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// strOr returns the variable's value or a default when unset.
func strOr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// intOr returns the variable parsed as an integer or a default when unset.
// A value that is set but not parsable is a configuration mistake and fatal.
func intOr(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}
