package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	filestorage "github.com/RotationHub/CECert/internal/file_storage"
	"github.com/RotationHub/CECert/internal/queue"
	"github.com/RotationHub/CECert/pkg/cecert"
)

// FakeRenderer writes a tiny pdf header and remembers what it rendered.
type FakeRenderer struct {
	mu       sync.Mutex
	Err      error
	Rendered []cecert.CertificateData
}

func (r *FakeRenderer) Render(data cecert.CertificateData, outFile string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.Rendered = append(r.Rendered, data)
	return os.WriteFile(outFile, []byte("%PDF-1.7\n% "+data.CertificateNumber+"\n"), 0o644)
}

func (r *FakeRenderer) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Err = err
}

// FakeStorage keeps objects in memory.
type FakeStorage struct {
	mu      sync.Mutex
	Bucket  string
	Objects map[string][]byte
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Bucket: "cecert", Objects: make(map[string][]byte)}
}

func (s *FakeStorage) UploadFileByPath(ctx context.Context, path string, fuo *filestorage.FileUploadOptions) (filestorage.Object, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return filestorage.Object{}, err
	}

	key := filepath.Base(path)
	if fuo != nil && fuo.DirectoryPath != "" {
		key = fuo.DirectoryPath + "/" + key
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = b

	return filestorage.Object{Bucket: s.Bucket, Key: key, Size: int64(len(b)), ContentType: "application/pdf"}, nil
}

func (s *FakeStorage) GetObject(ctx context.Context, key string) (io.ReadCloser, filestorage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.Objects[key]
	if !ok {
		return nil, filestorage.Object{}, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(b)), filestorage.Object{Bucket: s.Bucket, Key: key, Size: int64(len(b)), ContentType: "application/pdf"}, nil
}

func (s *FakeStorage) PresignedGetURL(ctx context.Context, key string, downloadName string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + s.Bucket + "/" + key, nil
}

func (s *FakeStorage) RemoveObject(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Objects[key]; !ok {
		return errors.New("object not found")
	}
	delete(s.Objects, key)
	return nil
}

type Published struct {
	Queue queue.QueueName
	Body  []byte
}

type FakePublisher struct {
	mu   sync.Mutex
	Msgs []Published
}

func (p *FakePublisher) Publish(routingKey queue.QueueName, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Msgs = append(p.Msgs, Published{Queue: routingKey, Body: body})
	return nil
}

// On returns the messages published to one queue.
func (p *FakePublisher) On(name queue.QueueName) []Published {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Published
	for _, m := range p.Msgs {
		if m.Queue == name {
			out = append(out, m)
		}
	}
	return out
}
