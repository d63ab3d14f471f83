package blobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FSStore keeps files under root/<consultationID>/<storedName> with a
// sidecar .meta.json per file.
type FSStore struct {
	root    string
	baseURL string
}

func NewFSStore(root, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root %s: %w", root, err)
	}
	return &FSStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *FSStore) dir(consultationID uuid.UUID) string {
	return filepath.Join(s.root, consultationID.String())
}

func (s *FSStore) metaPath(consultationID uuid.UUID, storedName string) string {
	return filepath.Join(s.dir(consultationID), storedName+".meta.json")
}

func (s *FSStore) Save(_ context.Context, meta Metadata, content io.Reader) (*Metadata, error) {
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
	meta.URL = fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, meta.ConsultationID, meta.StoredName)

	dir := s.dir(meta.ConsultationID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create consultation dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, meta.StoredName), data, 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	encoded, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(meta.ConsultationID, meta.StoredName), encoded, 0o644); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	out := meta
	return &out, nil
}

func (s *FSStore) readMeta(consultationID uuid.UUID, storedName string) (*Metadata, error) {
	encoded, err := os.ReadFile(s.metaPath(consultationID, storedName))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(encoded, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &meta, nil
}

func (s *FSStore) Open(_ context.Context, consultationID uuid.UUID, storedName string) (io.ReadCloser, *Metadata, error) {
	meta, err := s.readMeta(consultationID, storedName)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(s.dir(consultationID), storedName))
	if os.IsNotExist(err) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return f, meta, nil
}

func (s *FSStore) Delete(_ context.Context, consultationID uuid.UUID, storedName string) error {
	path := filepath.Join(s.dir(consultationID), storedName)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	// Sidecar removal failure leaves an orphan, not an error.
	os.Remove(s.metaPath(consultationID, storedName))
	return nil
}

func (s *FSStore) ListByConsultation(_ context.Context, consultationID uuid.UUID) ([]*Metadata, error) {
	entries, err := os.ReadDir(s.dir(consultationID))
	if os.IsNotExist(err) {
		return []*Metadata{}, nil
	}
	if err != nil {
		return nil, err
	}
	var items []*Metadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		meta, err := s.readMeta(consultationID, strings.TrimSuffix(entry.Name(), ".meta.json"))
		if err != nil {
			return nil, err
		}
		items = append(items, meta)
	}
	return items, nil
}
