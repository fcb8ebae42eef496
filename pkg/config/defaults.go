package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "careslot"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultKafkaBookingTopic = "booking-events"
	DefaultKafkaDLQTopic     = "booking-events-dlq"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	// Booking-specific limiter: a patient may create at most this many
	// bookings within the window before receiving 429.
	DefaultBookingRateLimit  = 3
	DefaultBookingRateWindow = 60 * time.Second

	DefaultMaxCourseDurationDays = 30
	DefaultSweepBuffer           = 24 * time.Hour

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
