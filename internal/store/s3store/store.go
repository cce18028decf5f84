package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/avatar-tools-mcp/internal/store/blob"
)

// objectAPI is the subset of *s3.Client the store calls.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Store struct {
	client  objectAPI
	bucket  string
	baseURL string
	log     *logrus.Entry
}

// NewStore creates an S3-backed store using the default credential chain.
// A nil log uses the logrus standard logger.
func NewStore(ctx context.Context, bucketName, baseURL string, log *logrus.Entry) (*s3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return newStore(s3.NewFromConfig(cfg), bucketName, baseURL, log), nil
}

func newStore(client objectAPI, bucketName, baseURL string, log *logrus.Entry) *s3Store {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &s3Store{client: client, bucket: bucketName, baseURL: baseURL, log: log}
}

func (s *s3Store) Put(ctx context.Context, fileName, contentType string, data []byte) (*blob.Object, error) {
	key, err := blob.NewKey(fileName)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar %s: %w", key, err)
	}

	s.log.WithFields(logrus.Fields{"bucket": s.bucket, "key": key}).Debug("Uploaded avatar")
	return &blob.Object{
		Key:         key,
		URL:         s.url(key),
		ContentType: contentType,
		Size:        len(data),
		Data:        data,
	}, nil
}

func (s *s3Store) Get(ctx context.Context, key string) (*blob.Object, error) {
	if err := blob.ValidateKey(key); err != nil {
		return nil, err
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get avatar %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read avatar %s: %w", key, err)
	}

	return &blob.Object{
		Key:         key,
		URL:         s.url(key),
		ContentType: aws.ToString(resp.ContentType),
		Size:        len(data),
		Data:        data,
	}, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	if err := blob.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete avatar %s: %w", key, err)
	}
	s.log.WithFields(logrus.Fields{"bucket": s.bucket, "key": key}).Debug("Deleted avatar")
	return nil
}

func (s *s3Store) url(key string) string {
	if u := blob.JoinURL(s.baseURL, key); u != "" {
		return u
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
