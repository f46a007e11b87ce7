// Package blobs keeps uploaded file content in memory behind opaque handles.
// A handle only resolves through the registry that issued it and disappears with
// it; nothing is written to disk, so links are not durable URLs.
package blobs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Pranavsangichetty/portfolio/internal/content"
)

// PathPrefix is the URL path under which handles are served.
const PathPrefix = "/blobs/"

var (
	// ErrNotFound is returned for handles the registry does not hold.
	ErrNotFound = errors.New("blob not found")
	// ErrQuotaExceeded is returned when storing would take a registry past its byte quota.
	ErrQuotaExceeded = errors.New("upload quota exceeded")
)

// Blob is one piece of uploaded content.
type Blob struct {
	Handle      string
	Name        string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// Registry maps handles to blobs for a single session.
type Registry struct {
	mu    sync.RWMutex
	blobs map[string]Blob
	size  int64
	quota int64
}

// NewRegistry returns an empty registry holding at most quota bytes; zero means unlimited.
func NewRegistry(quota int64) *Registry {
	return &Registry{blobs: make(map[string]Blob), quota: quota}
}

// Put stores data under a fresh handle.
func (r *Registry) Put(name string, data []byte) (Blob, error) {
	b := Blob{
		Handle:      uuid.NewString(),
		Name:        name,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
		CreatedAt:   time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quota > 0 && r.size+int64(len(data)) > r.quota {
		return Blob{}, fmt.Errorf("%w: %s would exceed %d bytes", ErrQuotaExceeded, name, r.quota)
	}
	r.blobs[b.Handle] = b
	r.size += int64(len(data))
	return b, nil
}

// Reserve fails with ErrQuotaExceeded unless n more bytes fit under the quota.
// It stores nothing; callers check a whole batch before any Put.
func (r *Registry) Reserve(n int64) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.quota > 0 && r.size+n > r.quota {
		return fmt.Errorf("%w: %d more bytes would exceed %d", ErrQuotaExceeded, n, r.quota)
	}
	return nil
}

// Reference stores f and returns the link it is served under.
func (r *Registry) Reference(f content.File) (string, error) {
	b, err := r.Put(f.Name, f.Content)
	if err != nil {
		return "", err
	}
	return URL(b.Handle), nil
}

func (r *Registry) Get(handle string) (Blob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blobs[handle]
	if !ok {
		return Blob{}, ErrNotFound
	}
	return b, nil
}

// Len is the number of stored blobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}

// Size is the total number of stored bytes.
func (r *Registry) Size() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// Clear drops every blob.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.blobs = make(map[string]Blob)
	r.size = 0
	r.mu.Unlock()
}

// URL returns the serving path of handle.
func URL(handle string) string {
	return PathPrefix + handle
}
