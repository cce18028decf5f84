// Package store persists exported avatars as named blobs and hands back a
// public reference for each.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/avatar-tools-mcp/internal/config"
	"github.com/ironsheep/avatar-tools-mcp/internal/store/blob"
	"github.com/ironsheep/avatar-tools-mcp/internal/store/filesystem"
	"github.com/ironsheep/avatar-tools-mcp/internal/store/memory"
	"github.com/ironsheep/avatar-tools-mcp/internal/store/s3store"
)

// Store is implemented by every blob backend.
type Store interface {
	// Put stores data under a fresh key derived from fileName.
	Put(ctx context.Context, fileName, contentType string, data []byte) (*blob.Object, error)
	// Get returns blob.ErrNotFound for an unknown key.
	Get(ctx context.Context, key string) (*blob.Object, error)
	// Delete succeeds for keys that do not exist.
	Delete(ctx context.Context, key string) error
}

// New builds the backend named by cfg.StorageType. The backend logs through
// log; a nil log uses the logrus standard logger.
func New(ctx context.Context, cfg *config.Config, log *logrus.Entry) (Store, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "store")
	fields := logrus.Fields{"storageType": cfg.StorageType}

	var (
		s   Store
		err error
	)
	switch cfg.StorageType {
	case config.StorageFilesystem:
		fields["basePath"] = cfg.LocalPath
		s, err = filesystem.NewStore(cfg.LocalPath, cfg.PublicBaseURL, log)
	case config.StorageS3:
		fields["bucketName"] = cfg.S3Bucket
		s, err = s3store.NewStore(ctx, cfg.S3Bucket, cfg.PublicBaseURL, log)
	case config.StorageMemory, "":
		fields["storageType"] = config.StorageMemory
		s = memory.NewStore(cfg.PublicBaseURL, log)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(fields).Info("Use storage")
	return s, nil
}
