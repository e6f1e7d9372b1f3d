package storage

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/hrmsuite/hrms/internal/db/models"
)

const codeNoSuchKey = "NoSuchKey"

// ObjectStore stores objects in an S3 compatible bucket.
type ObjectStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// Endpoint returns the host of the object store of a location, derived from the region
// unless the location overrides it.
func Endpoint(t models.LocationType, cfg models.LocationConfig) (host string, secure bool) {
	if cfg.Endpoint != "" {
		if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
			return u.Host, u.Scheme != "http"
		}

		return cfg.Endpoint, !cfg.Insecure
	}

	domain := "amazonaws.com"
	if t == models.LocationWasabi {
		domain = "wasabisys.com"
	}

	if cfg.Region == "" {
		return "s3." + domain, true
	}

	return "s3." + cfg.Region + "." + domain, true
}

func newObjectStore(t models.LocationType, cfg models.LocationConfig) (*ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}

	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrMissingCredentials
	}

	host, secure := Endpoint(t, cfg)

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s client", t)
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (s *ObjectStore) objectName(key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	if s.prefix == "" {
		return key, nil
	}

	return s.prefix + "/" + key, nil
}

// Put uploads r as key.
func (s *ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	name, err := s.objectName(key)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})

	return errors.Wrapf(err, "failed to upload %s", name)
}

// Get downloads key. The object is stat'ed first so a missing key fails here and not on
// the first read.
func (s *ObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	name, err := s.objectName(key)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download %s", name)
	}

	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()

		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return nil, ErrObjectNotFound
		}

		return nil, errors.Wrapf(err, "failed to stat %s", name)
	}

	return obj, nil
}

// Delete removes key.
func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	name, err := s.objectName(key)
	if err != nil {
		return err
	}

	return errors.Wrapf(s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}),
		"failed to delete %s", name)
}
