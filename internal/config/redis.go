package config

import (
    "context"
    "os"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds the Redis client that backs the brute-force limiter
// on the login and registration endpoints.  Address resolution order is
// REDIS_ADDR, then REDIS_HOST/REDIS_PORT, then localhost:6379.  The client
// is verified with a short ping; nil is returned when the server is not
// reachable so callers can run with rate limiting disabled.
func NewRedisClient() *redis.Client {
    addr := os.Getenv("REDIS_ADDR")
    if addr == "" {
        host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")
        if host != "" && port != "" {
            addr = host + ":" + port
        }
    }
    if addr == "" {
        addr = "localhost:6379"
    }
    dbNum := 0
    if s := os.Getenv("REDIS_DB"); s != "" {
        if n, err := strconv.Atoi(s); err == nil {
            dbNum = n
        }
    }
    client := redis.NewClient(&redis.Options{
        Addr:     addr,
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       dbNum,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}

// LoginLimitConfig controls the fixed-window limiter applied to credential
// endpoints.  Window counts reset after Window elapses; a client exceeding
// MaxAttempts within one window is rejected until the window expires.
type LoginLimitConfig struct {
    Enabled     bool
    MaxAttempts int
    Window      time.Duration
    Prefix      string
}

// LoadLoginLimitConfig reads limiter settings from the environment with
// defaults tuned for interactive logins.
func LoadLoginLimitConfig() LoginLimitConfig {
    cfg := LoginLimitConfig{
        Enabled:     strOr("LOGIN_LIMIT_ENABLED", "true") == "true",
        MaxAttempts: intOr("LOGIN_LIMIT_MAX_ATTEMPTS", 10),
        Window:      time.Duration(intOr("LOGIN_LIMIT_WINDOW_SEC", 60)) * time.Second,
        Prefix:      strOr("LOGIN_LIMIT_PREFIX", "authrl"),
    }
    if cfg.MaxAttempts < 1 {
        cfg.MaxAttempts = 1
    }
    if cfg.Window <= 0 {
        cfg.Window = time.Minute
    }
    return cfg
}
