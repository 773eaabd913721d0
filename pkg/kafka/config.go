package kafka

import "time"

// ProducerConfig configures the Kafka producer
type ProducerConfig struct {
	// Brokers is a list of Kafka broker addresses
	Brokers []string

	// Topic receives every document event
	Topic string

	BatchSize    int
	BatchTimeout time.Duration

	// RequiredAcks: 0 = no acks, 1 = leader only, -1 = all replicas
	RequiredAcks int

	// Async enables fire-and-forget writes
	Async bool

	MaxAttempts  int
	WriteTimeout time.Duration

	// Compression: none, gzip, snappy, lz4, zstd
	Compression string
}

// DefaultProducerConfig returns a ProducerConfig with sensible defaults
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "val-document-events",
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: 1,
		Async:        false,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		Compression:  "snappy",
	}
}
