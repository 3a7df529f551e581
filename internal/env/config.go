package env

import (
	"fmt"
	"strings"
)

// Places sources understood by PLACES_SOURCE.
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config is the navigator's runtime configuration.
type Config struct {
	KafkaBroker    string
	KafkaGroupID   string
	UtteranceTopic string
	ReplyTopic     string
	// CatalogTopic carries MinIO bucket notifications for the catalogue
	// object. Empty disables live reloads.
	CatalogTopic string

	PlacesSource  string
	PlacesFile    string
	PlacesBucket  string
	PlacesCatalog string
	DatabaseURL   string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioRegion    string

	// MinioKafkaTarget is the ARN resource id of the Kafka target MinIO
	// sends bucket notifications to. Empty leaves notifications alone.
	MinioKafkaTarget string

	// SeedOverwrite lets the seeder replace an existing catalogue object.
	SeedOverwrite bool
}

// FromEnv reads Config from the environment, applying defaults.
func FromEnv() Config {
	return Config{
		KafkaBroker:    GetEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaGroupID:   GetEnv("KAFKA_GROUP_ID", "navigator"),
		UtteranceTopic: GetEnv("UTTERANCE_TOPIC", "utterances"),
		ReplyTopic:     GetEnv("REPLY_TOPIC", "replies"),
		CatalogTopic:   GetEnv("CATALOG_TOPIC", ""),
		PlacesSource:   strings.ToLower(GetEnv("PLACES_SOURCE", SourceFile)),
		PlacesFile:     GetEnv("PLACES_FILE", "places.json"),
		PlacesBucket:   GetEnv("PLACES_BUCKET", "navigation"),
		PlacesCatalog:  GetEnv("PLACES_CATALOG", "jkuat"),
		DatabaseURL:    GetEnv("DATABASE_URL", ""),

		MinioEndpoint:    GetEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:   GetEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:   GetEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:      GetBool("MINIO_USE_SSL", false),
		MinioRegion:      GetEnv("MINIO_REGION", ""),
		MinioKafkaTarget: GetEnv("MINIO_KAFKA_TARGET", ""),

		SeedOverwrite: GetBool("SEED_OVERWRITE", false),
	}
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	switch c.PlacesSource {
	case SourceFile:
		if c.PlacesFile == "" {
			return fmt.Errorf("PLACES_FILE is required for PLACES_SOURCE=%s", c.PlacesSource)
		}
	case SourceS3:
		if c.PlacesBucket == "" || c.PlacesCatalog == "" {
			return fmt.Errorf("PLACES_BUCKET and PLACES_CATALOG are required for PLACES_SOURCE=%s", c.PlacesSource)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for PLACES_SOURCE=%s", c.PlacesSource)
		}
	default:
		return fmt.Errorf("unknown PLACES_SOURCE %q", c.PlacesSource)
	}
	if c.CatalogTopic != "" && c.PlacesSource != SourceS3 {
		return fmt.Errorf("CATALOG_TOPIC needs PLACES_SOURCE=%s", SourceS3)
	}
	return nil
}
