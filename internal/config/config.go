package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Redis stores Redis connection settings for the courier location index.
type Redis struct {
	Addr string
	DB   int
}

// Kafka stores Kafka settings for the booking-event worker and the
// notification publisher.
type Kafka struct {
	Brokers            []string
	GroupID            string
	BookingsTopic      string
	NotificationsTopic string
}

// Enabled reports whether Kafka is configured at all.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// Dispatch stores assignment orchestration tuning.
type Dispatch struct {
	OfferTimeout    time.Duration
	SearchDeadline  time.Duration
	MaxAttempts     int
	InitialRadiusKm float64
	RadiusStepKm    float64
	MaxRadiusKm     float64
}

// NotifyRetry stores retry behaviour of the notification publisher.
type NotifyRetry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Pprof stores pprof side server settings.
type Pprof struct {
	Port int
	User string
	Pass string
}

// RateLimit stores HTTP rate limiter settings.
type RateLimit struct {
	Limit      int
	Window     time.Duration
	TTL        time.Duration
	MaxBuckets int
}

// Config stores service settings.
type Config struct {
	Port        int
	DB          DB
	Redis       Redis
	Kafka       Kafka
	Dispatch    Dispatch
	NotifyRetry NotifyRetry
	Pprof       Pprof
	RateLimit   RateLimit
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:        envInt("PORT", DefaultPort()),
		DB:          loadDB(),
		Redis:       loadRedis(),
		Kafka:       loadKafka(),
		Dispatch:    loadDispatch(),
		NotifyRetry: DefaultNotifyRetry(),
		Pprof:       loadPprof(),
		RateLimit:   DefaultRateLimit(),
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.Parse()

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if err := cfg.Dispatch.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (d Dispatch) validate() error {
	if d.OfferTimeout <= 0 || d.SearchDeadline <= 0 {
		return fmt.Errorf("dispatch timeouts must be positive")
	}
	if d.MaxAttempts <= 0 {
		return fmt.Errorf("dispatch max attempts must be positive")
	}
	if d.InitialRadiusKm <= 0 || d.RadiusStepKm <= 0 || d.MaxRadiusKm < d.InitialRadiusKm {
		return fmt.Errorf("invalid dispatch radius settings")
	}
	return nil
}

func loadDB() DB {
	db := DefaultDB()
	db.Host = envStr("POSTGRES_HOST", db.Host)
	db.Port = envStr("POSTGRES_PORT", db.Port)
	db.User = envStr("POSTGRES_USER", db.User)
	db.Pass = envStr("POSTGRES_PASSWORD", db.Pass)
	db.Name = envStr("POSTGRES_DB", db.Name)
	return db
}

func loadRedis() Redis {
	r := DefaultRedis()
	r.Addr = envStr("REDIS_ADDR", r.Addr)
	r.DB = envInt("REDIS_DB", r.DB)
	return r
}

func loadKafka() Kafka {
	k := DefaultKafka()
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		parts := strings.Split(v, ",")
		brokers := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				brokers = append(brokers, p)
			}
		}
		k.Brokers = brokers
	}
	k.GroupID = envStr("KAFKA_GROUP_ID", k.GroupID)
	k.BookingsTopic = envStr("KAFKA_BOOKINGS_TOPIC", k.BookingsTopic)
	k.NotificationsTopic = envStr("KAFKA_NOTIFICATIONS_TOPIC", k.NotificationsTopic)
	return k
}

func loadDispatch() Dispatch {
	d := DefaultDispatch()
	d.OfferTimeout = envDuration("DISPATCH_OFFER_TIMEOUT", d.OfferTimeout)
	d.SearchDeadline = envDuration("DISPATCH_SEARCH_DEADLINE", d.SearchDeadline)
	d.MaxAttempts = envInt("DISPATCH_MAX_ATTEMPTS", d.MaxAttempts)
	d.InitialRadiusKm = envFloat("DISPATCH_INITIAL_RADIUS_KM", d.InitialRadiusKm)
	d.RadiusStepKm = envFloat("DISPATCH_RADIUS_STEP_KM", d.RadiusStepKm)
	d.MaxRadiusKm = envFloat("DISPATCH_MAX_RADIUS_KM", d.MaxRadiusKm)
	return d
}

func loadPprof() Pprof {
	p := DefaultPprof()
	p.Port = envInt("PPROF_PORT", p.Port)
	p.User = envStr("PPROF_USER", p.User)
	p.Pass = envStr("PPROF_PASS", p.Pass)
	return p
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
