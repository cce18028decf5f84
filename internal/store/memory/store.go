package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/avatar-tools-mcp/internal/store/blob"
)

type memStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]*blob.Object
	log     *logrus.Entry
}

// NewStore creates an in-memory store. Objects live as long as the process.
// A nil log uses the logrus standard logger.
func NewStore(baseURL string, log *logrus.Entry) *memStore {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &memStore{
		baseURL: baseURL,
		objects: make(map[string]*blob.Object),
		log:     log,
	}
}

func (s *memStore) Put(ctx context.Context, fileName, contentType string, data []byte) (*blob.Object, error) {
	key, err := blob.NewKey(fileName)
	if err != nil {
		return nil, err
	}

	url := blob.JoinURL(s.baseURL, key)
	if url == "" {
		url = "memory://" + key
	}
	obj := &blob.Object{
		Key:         key,
		URL:         url,
		ContentType: contentType,
		Size:        len(data),
		Data:        bytes.Clone(data),
	}

	s.mu.Lock()
	s.objects[key] = obj
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"key": key, "size": obj.Size}).Debug("Stored avatar in memory")
	return obj, nil
}

func (s *memStore) Get(ctx context.Context, key string) (*blob.Object, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, blob.ErrNotFound
	}
	cp := *obj
	cp.Data = bytes.Clone(obj.Data)
	return &cp, nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	s.log.WithField("key", key).Debug("Deleted avatar from memory")
	return nil
}
