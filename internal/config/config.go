// Package config loads the runtime configuration from environment
// variables. Values that the process cannot run without abort startup;
// optional integrations degrade to disabled when unset.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config collects everything the server reads from the environment.
type Config struct {
	Env  string
	Port string

	MongoURI string
	MongoDB  string

	// JWT settings are read verbatim; validation happens when the token
	// service is constructed so misconfiguration surfaces as one error.
	JWTSecret    string
	JWTAlgorithm string

	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int

	AMQPURL string

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	SenderEmail  string
	ResetURLBase string
}

// Load reads the configuration. It terminates the process when a
// required variable is missing.
func Load() *Config {
	return &Config{
		Env:  getenv("APP_ENV", "development"),
		Port: getenv("PORT", "8080"),

		MongoURI: must("MONGO_URI"),
		MongoDB:  getenv("MONGO_DB", "ecommerce"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTAlgorithm: getenv("JWT_ALGORITHM", "HS256"),

		AccessTTLMin:   atoi("ACCESS_TOKEN_TTL_MIN", 30),
		RefreshTTLDays: atoi("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     atoi("BCRYPT_COST", 10),

		AMQPURL: os.Getenv("AMQP_URL"),

		AWSRegion:    getenv("AWS_REGION", "us-east-1"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY"),
		AWSSecretKey: os.Getenv("AWS_SECRET_KEY"),
		SenderEmail:  os.Getenv("SENDER_EMAIL"),
		ResetURLBase: getenv("RESET_URL_BASE", "http://localhost:8080/users/reset-password"),
	}
}

func must(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required env %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}
