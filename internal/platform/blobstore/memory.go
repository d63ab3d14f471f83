package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

type storedFile struct {
	meta    Metadata
	content []byte
}

// InMemoryStore is a thread-safe Store for tests and development.
type InMemoryStore struct {
	mu    sync.RWMutex
	files map[string]*storedFile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{files: make(map[string]*storedFile)}
}

func key(consultationID uuid.UUID, storedName string) string {
	return consultationID.String() + "/" + storedName
}

func (s *InMemoryStore) Save(_ context.Context, meta Metadata, content io.Reader) (*Metadata, error) {
	if err := validate(meta); err != nil {
		return nil, err
	}
	data, err := readCapped(content)
	if err != nil {
		return nil, err
	}

	meta.ID = uuid.New()
	meta.StoredName = storedName(meta.FileName)
	meta.Size = int64(len(data))
	meta.CreatedAt = time.Now().UTC()
	if meta.DocumentType == "" {
		meta.DocumentType = DefaultDocumentType
	}
	meta.URL = fmt.Sprintf("/uploads/%s/%s", meta.ConsultationID, meta.StoredName)

	s.mu.Lock()
	s.files[key(meta.ConsultationID, meta.StoredName)] = &storedFile{meta: meta, content: data}
	s.mu.Unlock()

	out := meta
	return &out, nil
}

func (s *InMemoryStore) Open(_ context.Context, consultationID uuid.UUID, storedName string) (io.ReadCloser, *Metadata, error) {
	s.mu.RLock()
	f, ok := s.files[key(consultationID, storedName)]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrNotFound
	}
	meta := f.meta
	return io.NopCloser(bytes.NewReader(f.content)), &meta, nil
}

func (s *InMemoryStore) Delete(_ context.Context, consultationID uuid.UUID, storedName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(consultationID, storedName)
	if _, ok := s.files[k]; !ok {
		return ErrNotFound
	}
	delete(s.files, k)
	return nil
}

func (s *InMemoryStore) ListByConsultation(_ context.Context, consultationID uuid.UUID) ([]*Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []*Metadata
	for _, f := range s.files {
		if f.meta.ConsultationID == consultationID {
			meta := f.meta
			items = append(items, &meta)
		}
	}
	return items, nil
}
