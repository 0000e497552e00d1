package wizard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrClipTooLarge = errors.New("audio clip exceeds size limit")

// Clip é o áudio finalizado de uma gravação.
type Clip struct {
	Data     []byte
	MIMEType string
}

// Recorder adquire o recurso de captura (microfone, upload em partes...).
type Recorder interface {
	Start(ctx context.Context) (Recording, error)
}

// Recording é uma captura em andamento. Release precisa ser seguro para
// chamadas repetidas e é sempre chamado pela sessão ao sair da gravação.
type Recording interface {
	Stop() (Clip, error)
	Release() error
}

// BufferRecorder recebe o áudio em partes via HTTP (o navegador grava, o servidor acumula).
type BufferRecorder struct {
	MaxBytes int
	MIMEType string
}

func NewBufferRecorder(maxBytes int, mimeType string) *BufferRecorder {
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	return &BufferRecorder{MaxBytes: maxBytes, MIMEType: mimeType}
}

func (r *BufferRecorder) Start(ctx context.Context) (Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &bufferRecording{max: r.MaxBytes, mime: r.MIMEType}, nil
}

type bufferRecording struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	max      int
	mime     string
	released bool
}

func (b *bufferRecording) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return 0, fmt.Errorf("recording already released")
	}
	if b.max > 0 && b.buf.Len()+len(p) > b.max {
		return 0, ErrClipTooLarge
	}
	return b.buf.Write(p)
}

func (b *bufferRecording) Stop() (Clip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return Clip{}, fmt.Errorf("recording already released")
	}
	data := make([]byte, b.buf.Len())
	copy(data, b.buf.Bytes())
	return Clip{Data: data, MIMEType: b.mime}, nil
}

func (b *bufferRecording) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
	b.buf.Reset()
	return nil
}
