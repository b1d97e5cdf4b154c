package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "dispatch_db",
}

var defaultRedis = Redis{
	Addr: "127.0.0.1:6379",
	DB:   0,
}

var defaultKafka = Kafka{
	GroupID:            "service-dispatch",
	BookingsTopic:      "bookings.events",
	NotificationsTopic: "dispatch.notifications",
}

var defaultDispatch = Dispatch{
	OfferTimeout:    30 * time.Second,
	SearchDeadline:  120 * time.Second,
	MaxAttempts:     10,
	InitialRadiusKm: 5,
	RadiusStepKm:    2,
	MaxRadiusKm:     15,
}

var defaultNotifyRetry = NotifyRetry{
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultPprof = Pprof{
	Port: 6060,
}

var defaultRateLimit = RateLimit{
	Limit:      50,
	Window:     time.Second,
	TTL:        10 * time.Minute,
	MaxBuckets: 100000,
}

// DefaultPort returns the default HTTP port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultRedis returns the default Redis settings.
func DefaultRedis() Redis { return defaultRedis }

// DefaultKafka returns the default Kafka settings (no brokers: disabled).
func DefaultKafka() Kafka { return defaultKafka }

// DefaultDispatch returns the default dispatch orchestration settings.
func DefaultDispatch() Dispatch { return defaultDispatch }

// DefaultNotifyRetry returns the default notification retry settings.
func DefaultNotifyRetry() NotifyRetry { return defaultNotifyRetry }

// DefaultPprof returns the default pprof side server settings.
func DefaultPprof() Pprof { return defaultPprof }

// DefaultRateLimit returns the default HTTP rate limiter settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }
