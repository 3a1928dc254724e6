package s3_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailprobe/integration/storage/s3"
)

type fakeClient struct {
	objects map[string]string
	err     error
	lastIn  *s3aws.GetObjectInput
}

func (f *fakeClient) GetObject(_ context.Context, in *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
	f.lastIn = in
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3aws.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func newReader(t *testing.T, client s3.S3Client, maxSize int64) *s3.Reader {
	t.Helper()
	r, err := s3.New(context.Background(), s3.Config{Region: "us-east-1", MaxObjectSize: maxSize}, s3.WithS3Client(client))
	require.NoError(t, err)
	return r
}

func TestParseURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uri    string
		bucket string
		key    string
		ok     bool
	}{
		{"s3://policies/returns.txt", "policies", "returns.txt", true},
		{"s3://policies/2025/shipping.md", "policies", "2025/shipping.md", true},
		{"s3://policies", "", "", false},
		{"s3://policies/", "", "", false},
		{"s3:///returns.txt", "", "", false},
		{"s3://policies/dir/", "", "", false},
		{"/tmp/returns.txt", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			t.Parallel()
			bucket, key, err := s3.ParseURI(tt.uri)
			if !tt.ok {
				assert.ErrorIs(t, err, s3.ErrInvalidURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := s3.New(context.Background(), s3.Config{}, s3.WithS3Client(&fakeClient{}))
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)

	_, err = s3.New(context.Background(), s3.Config{Region: "us-east-1", MaxObjectSize: -1}, s3.WithS3Client(&fakeClient{}))
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)
}

func TestReader_Read(t *testing.T) {
	t.Parallel()

	client := &fakeClient{objects: map[string]string{"policies/returns.txt": "Returns accepted within 30 days."}}
	r := newReader(t, client, 0)

	data, err := r.Read(context.Background(), "s3://policies/returns.txt")
	require.NoError(t, err)
	assert.Equal(t, "Returns accepted within 30 days.", string(data))
	assert.Equal(t, "policies", aws.ToString(client.lastIn.Bucket))
	assert.Equal(t, "returns.txt", aws.ToString(client.lastIn.Key))
}

func TestReader_Read_TooLarge(t *testing.T) {
	t.Parallel()

	client := &fakeClient{objects: map[string]string{"policies/big.txt": strings.Repeat("x", 64)}}
	r := newReader(t, client, 16)

	_, err := r.Read(context.Background(), "s3://policies/big.txt")
	assert.ErrorIs(t, err, s3.ErrObjectTooLarge)
}

func TestReader_Read_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing key", &types.NoSuchKey{}, s3.ErrObjectNotFound},
		{"missing bucket", &types.NoSuchBucket{}, s3.ErrBucketNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, s3.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, s3.ErrServiceUnavailable},
		{"deadline", context.DeadlineExceeded, s3.ErrOperationTimeout},
		{"canceled", context.Canceled, s3.ErrOperationCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newReader(t, &fakeClient{err: tt.err}, 0)
			_, err := r.Read(context.Background(), "s3://policies/returns.txt")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown api error keeps original", func(t *testing.T) {
		t.Parallel()
		orig := &smithy.GenericAPIError{Code: "Weird"}
		r := newReader(t, &fakeClient{err: orig}, 0)
		_, err := r.Read(context.Background(), "s3://policies/returns.txt")
		var apiErr smithy.APIError
		assert.True(t, errors.As(err, &apiErr))
		assert.Contains(t, err.Error(), "Weird")
	})
}

func TestReader_Read_InvalidURI(t *testing.T) {
	t.Parallel()
	r := newReader(t, &fakeClient{}, 0)
	_, err := r.Read(context.Background(), "policies/returns.txt")
	assert.ErrorIs(t, err, s3.ErrInvalidURI)
}
