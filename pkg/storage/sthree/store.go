// Copyright © 2018 One Concern

package sthree

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/codetrack/codetrack/pkg/errors"
	"github.com/codetrack/codetrack/pkg/storage"
	"github.com/codetrack/codetrack/pkg/storage/status"
)

// PageSize is the maximum number of keys returned by a single listing call
const PageSize = 1000

// Option for the S3 store
type Option func(*s3FS)

// Bucket to store objects in
func Bucket(bucket string) Option {
	return func(fs *s3FS) {
		fs.bucket = bucket
	}
}

// AWSConfig overrides the default AWS configuration (credentials and region are otherwise resolved from the environment)
func AWSConfig(cfg *aws.Config) Option {
	return func(fs *s3FS) {
		if cfg != nil {
			fs.awsConfig = cfg
		}
	}
}

// Region of the bucket
func Region(region string) Option {
	return func(fs *s3FS) {
		if region != "" {
			fs.awsConfig.Region = aws.String(region)
		}
	}
}

// Endpoint for S3-compatible stores such as minio. Path-style addressing is used with a custom endpoint.
func Endpoint(endpoint string) Option {
	return func(fs *s3FS) {
		if endpoint != "" {
			fs.awsConfig.Endpoint = aws.String(endpoint)
			fs.awsConfig.S3ForcePathStyle = aws.Bool(true)
		}
	}
}

// Client injects an S3 API client, bypassing session creation
func Client(client s3iface.S3API) Option {
	return func(fs *s3FS) {
		fs.s3 = client
	}
}

// New S3 store
func New(option Option, options ...Option) (storage.Store, error) {
	fs := &s3FS{
		awsConfig: aws.NewConfig(),
	}
	option(fs)
	for _, apply := range options {
		apply(fs)
	}
	if fs.bucket == "" {
		return nil, status.ErrInvalidResource.Wrapf("bucket name is required")
	}

	if fs.s3 == nil {
		sess, err := session.NewSessionWithOptions(session.Options{
			Config:            *fs.awsConfig,
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			return nil, status.ErrStorageAPI.Wrap(err)
		}
		fs.s3 = s3.New(sess)
	}
	fs.uploader = s3manager.NewUploaderWithClient(fs.s3)
	return fs, nil
}

type s3FS struct {
	bucket    string
	awsConfig *aws.Config
	s3        s3iface.S3API
	uploader  *s3manager.Uploader
}

func (s *s3FS) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		err = toSentinelErrors(err)
		if errors.Is(err, status.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *s3FS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return obj.Body, nil
}

func (s *s3FS) Put(ctx context.Context, key string, rdr io.Reader, exclusive bool) error {
	if exclusive {
		// S3 has no conditional put in this API: this check is best effort
		has, err := s.Has(ctx, key)
		if err != nil {
			return err
		}
		if has {
			return status.ErrExists.Wrapf(key)
		}
	}
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   rdr,
	})
	return toSentinelErrors(err)
}

func (s *s3FS) Delete(ctx context.Context, key string) error {
	_, err := s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return toSentinelErrors(err)
}

func (s *s3FS) Keys(ctx context.Context) ([]string, error) {
	return storage.ListPrefix(ctx, s, "")
}

func (s *s3FS) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	maxKeys := int64(PageSize)
	if count > 0 && count < PageSize {
		maxKeys = int64(count)
	}
	params := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int64(maxKeys),
	}
	if delimiter != "" {
		params.Delimiter = aws.String(delimiter)
	}
	if token != "" {
		params.ContinuationToken = aws.String(token)
	}

	page, err := s.s3.ListObjectsV2WithContext(ctx, params)
	if err != nil {
		return nil, "", toSentinelErrors(err)
	}

	keys := make([]string, 0, len(page.Contents))
	for _, obj := range page.Contents {
		if key := aws.StringValue(obj.Key); key != "" {
			keys = append(keys, key)
		}
	}

	if aws.BoolValue(page.IsTruncated) {
		return keys, aws.StringValue(page.NextContinuationToken), nil
	}
	return keys, "", nil
}

func (s *s3FS) Clear(ctx context.Context) error {
	params := &s3.ListObjectsInput{Bucket: aws.String(s.bucket)}
	del := s3manager.NewBatchDeleteWithClient(s.s3)
	return toSentinelErrors(del.Delete(ctx, s3manager.NewDeleteListIterator(s.s3, params)))
}

func (s *s3FS) String() string {
	return "s3://" + s.bucket
}
