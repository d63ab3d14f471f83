package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func pdfMeta(consultationID uuid.UUID) Metadata {
	return Metadata{
		ConsultationID: consultationID,
		FileName:       "informe_medico_Ana_Martinez_2026-08-28.pdf",
		ContentType:    "application/pdf",
	}
}

func TestInMemorySaveAndOpen(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	consultID := uuid.New()

	content := []byte("%PDF-1.4 test content")
	meta, err := store.Save(ctx, pdfMeta(consultID), bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if meta.Size != int64(len(content)) {
		t.Errorf("size = %d, want %d", meta.Size, len(content))
	}
	if !strings.HasSuffix(meta.StoredName, ".pdf") {
		t.Errorf("stored name %q should keep the extension", meta.StoredName)
	}

	rc, got, err := store.Open(ctx, consultID, meta.StoredName)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if !bytes.Equal(data, content) {
		t.Error("content mismatch after round trip")
	}
	if got.FileName != meta.FileName {
		t.Errorf("file name = %q", got.FileName)
	}
}

func TestSaveDocumentType(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	meta := pdfMeta(uuid.New())
	meta.DocumentType = "prescription"
	saved, err := store.Save(ctx, meta, bytes.NewReader([]byte("%PDF-1.4")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.DocumentType != "prescription" {
		t.Errorf("document type = %q", saved.DocumentType)
	}

	// Unlabeled uploads fall back to the generic type.
	saved, err = store.Save(ctx, pdfMeta(uuid.New()), bytes.NewReader([]byte("%PDF-1.4")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.DocumentType != DefaultDocumentType {
		t.Errorf("document type = %q, want %q", saved.DocumentType, DefaultDocumentType)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store := NewInMemoryStore()

	big := bytes.NewReader(make([]byte, 6*1024*1024))
	_, err := store.Save(context.Background(), pdfMeta(uuid.New()), big)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestSaveAcceptsMaxSizedFile(t *testing.T) {
	store := NewInMemoryStore()

	payload := bytes.NewReader(make([]byte, 4*1024*1024))
	if _, err := store.Save(context.Background(), pdfMeta(uuid.New()), payload); err != nil {
		t.Fatalf("4MB pdf should be accepted: %v", err)
	}
}

func TestSaveRejectsDisallowedContentType(t *testing.T) {
	store := NewInMemoryStore()

	meta := Metadata{
		ConsultationID: uuid.New(),
		FileName:       "malware.exe",
		ContentType:    "application/x-msdownload",
	}
	_, err := store.Save(context.Background(), meta, strings.NewReader("MZ"))
	if !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("expected ErrInvalidContentType, got %v", err)
	}
}

func TestSaveRequiresFileName(t *testing.T) {
	store := NewInMemoryStore()

	meta := Metadata{ConsultationID: uuid.New(), ContentType: "application/pdf"}
	_, err := store.Save(context.Background(), meta, strings.NewReader("x"))
	if !errors.Is(err, ErrMissingFileName) {
		t.Errorf("expected ErrMissingFileName, got %v", err)
	}
}

func TestListByConsultation(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	consultID := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := store.Save(ctx, pdfMeta(consultID), strings.NewReader("doc")); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if _, err := store.Save(ctx, pdfMeta(uuid.New()), strings.NewReader("other")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	items, err := store.ListByConsultation(ctx, consultID)
	if err != nil {
		t.Fatalf("ListByConsultation: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
}

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()
	consultID := uuid.New()

	content := []byte("%PDF-1.4 fs test")
	meta, err := store.Save(ctx, pdfMeta(consultID), bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(meta.URL, "http://localhost:8080/uploads/") {
		t.Errorf("url = %q", meta.URL)
	}

	rc, _, err := store.Open(ctx, consultID, meta.StoredName)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(data, content) {
		t.Error("content mismatch")
	}

	items, err := store.ListByConsultation(ctx, consultID)
	if err != nil {
		t.Fatalf("ListByConsultation: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	if err := store.Delete(ctx, consultID, meta.StoredName); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Open(ctx, consultID, meta.StoredName); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFSStoreListEmptyConsultation(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	items, err := store.ListByConsultation(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListByConsultation: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty list, got %d", len(items))
	}
}
