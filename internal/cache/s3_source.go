package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

const defaultDatasetKey = "ladestellen/ch.bfe.ladestellen-elektromobilitaet_de.json"

// S3DatasetSource reads a mirrored copy of the dataset from an S3 bucket. It
// is a source only; nothing is ever written back.
type S3DatasetSource struct {
	client     S3Client
	bucketName string
	key        string
}

func NewS3DatasetSource(client S3Client, bucketName, key string) *S3DatasetSource {
	if key == "" {
		key = defaultDatasetKey
	}
	return &S3DatasetSource{
		client:     client,
		bucketName: bucketName,
		key:        key,
	}
}

func (s *S3DatasetSource) FetchFeatures(ctx context.Context) ([]models.Feature, error) {
	if s.bucketName == "" {
		return nil, NewDatasetTransportError(fmt.Errorf("empty bucket name"))
	}

	log.Debug().Str("bucket", s.bucketName).Str("key", s.key).Msg("Fetching station dataset from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, NewDatasetTransportError(fmt.Errorf("getting s3://%s/%s: %w", s.bucketName, s.key, err))
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	body, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, NewDatasetTransportError(fmt.Errorf("reading s3 object: %w", err))
	}

	features, err := decodeFeatureCollection(body)
	if err != nil {
		return nil, &DatasetUnavailableError{
			Excerpt: excerpt(body, maxExcerptBytes),
			Err:     err,
		}
	}
	return features, nil
}
