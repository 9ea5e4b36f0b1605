package recorder

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4/pkg/media"

	"github.com/junsooki/reelstudio/internal/encoder"
)

// Artifact is one completed recording: every chunk of a session joined in
// order. The caller owns it and should Release it once it is no longer needed.
type Artifact struct {
	ID        uuid.UUID
	MimeType  string
	Chunks    int
	Duration  time.Duration
	CreatedAt time.Time

	mu   sync.RWMutex
	data []byte
}

func assemble(id uuid.UUID, mimeType string, chunks []media.Sample) *Artifact {
	size := 0
	var dur time.Duration
	for _, c := range chunks {
		size += len(c.Data)
		dur += c.Duration
	}
	data := make([]byte, 0, size)
	for _, c := range chunks {
		data = append(data, c.Data...)
	}
	return &Artifact{
		ID:        id,
		MimeType:  mimeType,
		Chunks:    len(chunks),
		Duration:  dur,
		CreatedAt: time.Now(),
		data:      data,
	}
}

// Bytes returns the encoded file, or nil after Release.
func (a *Artifact) Bytes() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data
}

// Size is the encoded length in bytes.
func (a *Artifact) Size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.data)
}

// Extension is the file extension matching MimeType.
func (a *Artifact) Extension() string {
	return encoder.Extension(a.MimeType)
}

// FileName returns base with the artifact's extension.
func (a *Artifact) FileName(base string) string {
	return base + a.Extension()
}

// WriteTo implements io.WriterTo.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(a.Bytes()).WriteTo(w)
}

// Release drops the encoded bytes.
func (a *Artifact) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = nil
}

// Released reports whether Release was called.
func (a *Artifact) Released() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data == nil
}
