package cmd

import "time"

// Config carries every runtime setting of the service. Values are read from
// the environment in main; nothing here reads the environment itself.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost        string
	KafkaEventsTopic string

	// TenantID is the tenant every order and customer created through this
	// instance belongs to.
	TenantID string

	// ResumeStallTimeout is how old an unfinished transition must be before
	// the resume job re-drives it.
	ResumeStallTimeout time.Duration
}
