package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/avatar-tools-mcp/internal/store/blob"
)

// typeSuffix names the sidecar file holding an object's content type.
const typeSuffix = ".type"

type fsStore struct {
	basePath string
	baseURL  string
	log      *logrus.Entry
}

// NewStore creates a filesystem-backed store rooted at basePath.
// A nil log uses the logrus standard logger.
func NewStore(basePath, baseURL string, log *logrus.Entry) (*fsStore, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &fsStore{basePath: abs, baseURL: baseURL, log: log}, nil
}

func (s *fsStore) Put(ctx context.Context, fileName, contentType string, data []byte) (*blob.Object, error) {
	key, err := blob.NewKey(fileName)
	if err != nil {
		return nil, err
	}
	filePath := filepath.Join(s.basePath, key)
	log := s.log.WithFields(logrus.Fields{"key": key, "file_path": filePath})

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		log.WithError(err).Error("Failed to write avatar")
		return nil, fmt.Errorf("failed to write avatar: %w", err)
	}
	if err := os.WriteFile(filePath+typeSuffix, []byte(contentType), 0o644); err != nil {
		os.Remove(filePath)
		log.WithError(err).Error("Failed to write avatar content type")
		return nil, fmt.Errorf("failed to write avatar content type: %w", err)
	}

	log.Debug("Stored avatar")
	return &blob.Object{
		Key:         key,
		URL:         s.url(key, filePath),
		ContentType: contentType,
		Size:        len(data),
		Data:        data,
	}, nil
}

func (s *fsStore) Get(ctx context.Context, key string) (*blob.Object, error) {
	filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}
	contentType, err := os.ReadFile(filePath + typeSuffix)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read avatar content type: %w", err)
	}

	return &blob.Object{
		Key:         key,
		URL:         s.url(key, filePath),
		ContentType: strings.TrimSpace(string(contentType)),
		Size:        len(data),
		Data:        data,
	}, nil
}

func (s *fsStore) Delete(ctx context.Context, key string) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}
	for _, p := range []string{filePath, filePath + typeSuffix} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete avatar: %w", err)
		}
	}
	s.log.WithField("key", key).Debug("Deleted avatar")
	return nil
}

func (s *fsStore) path(key string) (string, error) {
	if err := blob.ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, key), nil
}

func (s *fsStore) url(key, filePath string) string {
	if u := blob.JoinURL(s.baseURL, key); u != "" {
		return u
	}
	return "file://" + filepath.ToSlash(filePath)
}
