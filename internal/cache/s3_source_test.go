package cache

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3Client struct {
	getObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getObjectFunc != nil {
		return m.getObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(`{"features":[]}`))}, nil
}

func TestS3DatasetSource_FetchFeatures(t *testing.T) {
	var gotBucket, gotKey string
	client := &mockS3Client{
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			gotBucket = aws.ToString(params.Bucket)
			gotKey = aws.ToString(params.Key)
			return &s3.GetObjectOutput{
				Body: io.NopCloser(strings.NewReader(`{"features":[{"properties":{"name":"A"}},{"properties":{"name":"B"}}]}`)),
			}, nil
		},
	}

	source := NewS3DatasetSource(client, "mirror-bucket", "")
	features, err := source.FetchFeatures(context.Background())
	require.NoError(t, err)
	assert.Len(t, features, 2)
	assert.Equal(t, "mirror-bucket", gotBucket)
	assert.Equal(t, defaultDatasetKey, gotKey)
}

func TestS3DatasetSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		client  *mockS3Client
		wantMsg string
	}{
		{
			name:    "empty bucket",
			bucket:  "",
			client:  &mockS3Client{},
			wantMsg: "empty bucket name",
		},
		{
			name:   "get object fails",
			bucket: "mirror-bucket",
			client: &mockS3Client{
				getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return nil, errors.New("NoSuchKey")
				},
			},
			wantMsg: "NoSuchKey",
		},
		{
			name:   "invalid json",
			bucket: "mirror-bucket",
			client: &mockS3Client{
				getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("<html>"))}, nil
				},
			},
			wantMsg: "decoding feature collection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewS3DatasetSource(tt.client, tt.bucket, "custom/key.json")
			features, err := source.FetchFeatures(context.Background())
			assert.Nil(t, features)
			require.Error(t, err)

			var target *DatasetUnavailableError
			require.True(t, errors.As(err, &target))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
