package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/notification"

	"github.com/ekbaya/jkuat-navigation/internal/catalog"
	"github.com/ekbaya/jkuat-navigation/internal/env"
	"github.com/ekbaya/jkuat-navigation/internal/keys"
	"github.com/ekbaya/jkuat-navigation/internal/models"
)

// S3Service stores place catalogues in S3-compatible storage.
type S3Service struct {
	client *minio.Client
}

// NewS3Service connects to the MinIO server named by cfg.MinioEndpoint.
func NewS3Service(cfg env.Config) (*S3Service, error) {
	if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
		return nil, fmt.Errorf("missing one or more required environment variables: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.Println("Successfully connected to MinIO endpoint:", cfg.MinioEndpoint)
	return &S3Service{client: minioClient}, nil
}

// CreateBucket makes bucketName unless it already exists.
func (s *S3Service) CreateBucket(ctx context.Context, bucketName string, location string) (bool, error) {
	exists, err := s.client.BucketExists(ctx, bucketName)
	if err != nil {
		return false, fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		err = s.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// StorePlaces uploads a catalogue under its canonical key. An existing
// catalogue is left alone unless overwrite is set.
func (s *S3Service) StorePlaces(ctx context.Context, bucketName, catalogName string, places []models.Place, overwrite bool) error {
	objectKey := keys.Catalog(catalogName)

	if !overwrite {
		_, err := s.client.StatObject(ctx, bucketName, objectKey, minio.StatObjectOptions{})
		if err == nil {
			log.Printf("Catalogue '%s' already exists in bucket '%s'. Ignoring write operation.", catalogName, bucketName)
			return nil
		}
		if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			return fmt.Errorf("failed to check for existing object: %w", err)
		}
	}

	data, err := catalog.EncodePlaces(places)
	if err != nil {
		return fmt.Errorf("failed to marshal places to JSON: %w", err)
	}

	_, err = s.client.PutObject(
		ctx,
		bucketName,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to store object in S3: %w", err)
	}

	log.Printf("Stored %d places in bucket '%s' with key '%s'", len(places), bucketName, objectKey)
	return nil
}

// GetPlaces downloads and decodes the catalogue stored at objectKey.
func (s *S3Service) GetPlaces(ctx context.Context, bucketName string, objectKey string) ([]models.Place, error) {
	object, err := s.client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", bucketName, objectKey, err)
	}
	places, err := catalog.DecodePlaces(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", bucketName, objectKey, err)
	}

	log.Printf("Retrieved %d places from bucket '%s' with key '%s'", len(places), bucketName, objectKey)
	return places, nil
}

// Source exposes one catalogue as a catalog.Source.
func (s *S3Service) Source(bucketName, catalogName string) catalog.Source {
	return catalog.SourceFunc(func(ctx context.Context) ([]models.Place, error) {
		return s.GetPlaces(ctx, bucketName, keys.Catalog(catalogName))
	})
}

// NotifyOnCatalogChange asks MinIO to publish an event to the Kafka target
// identified by targetID whenever a catalogue object in bucketName is
// written.
func (s *S3Service) NotifyOnCatalogChange(ctx context.Context, bucketName, targetID string) error {
	queue := notification.NewConfig(notification.NewArn("minio", "sqs", "", targetID, "kafka"))
	queue.AddEvents(notification.ObjectCreatedAll)
	queue.AddFilterPrefix("catalogs/")
	queue.AddFilterSuffix("/places.json")

	config := notification.Configuration{}
	if !config.AddQueue(queue) {
		return fmt.Errorf("duplicate notification target %s", targetID)
	}
	if err := s.client.SetBucketNotification(ctx, bucketName, config); err != nil {
		return fmt.Errorf("failed to set bucket notification on '%s': %w", bucketName, err)
	}
	log.Printf("Bucket '%s' now notifies Kafka target '%s' on catalogue changes", bucketName, targetID)
	return nil
}
