package recording

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Block is a fixed-size chunk of 16-bit signed little-endian PCM.
type Block struct {
	Data      []byte
	Samples   int // frames per channel
	Timestamp time.Time
}

type Config struct {
	Backend    string // "malgo" or "pipewire"
	SampleRate int
	Channels   int
	BlockSize  int // samples per block
	Device     string
	QueueDepth int

	// Warn, when set, receives capture warnings (queue overflow, backend
	// diagnostics) in addition to the log.
	Warn WarnFunc
}

// WarnFunc reports a user-visible capture warning
type WarnFunc func(format string, args ...any)

func (w WarnFunc) warnf(format string, args ...any) {
	log.Printf("Recording: "+format, args...)
	if w != nil {
		w(format, args...)
	}
}

func DefaultConfig() Config {
	return Config{
		Backend:    "malgo",
		SampleRate: 16000,
		Channels:   1,
		BlockSize:  4000,
		Device:     "",
		QueueDepth: 64,
	}
}

// Source produces audio blocks until Stop is called or ctx is cancelled.
// Errors that happen after Start returned are delivered on the error
// channel; both channels are closed when capture ends.
type Source interface {
	Start(ctx context.Context) (<-chan Block, <-chan error, error)
	Stop() error
}

// New creates the capture source for the configured backend
func New(config Config) (Source, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	switch config.Backend {
	case "malgo", "":
		return NewMalgoSource(config), nil
	case "pipewire":
		return NewPipeWireSource(config), nil
	default:
		return nil, fmt.Errorf("unsupported audio backend: %s", config.Backend)
	}
}

// BlockBytes is the byte length of one block for the given config
func (c Config) BlockBytes() int {
	return c.BlockSize * c.Channels * 2
}

func validateConfig(config Config) error {
	if config.SampleRate <= 0 {
		return fmt.Errorf("invalid SampleRate: %d", config.SampleRate)
	}
	if config.Channels <= 0 {
		return fmt.Errorf("invalid Channels: %d", config.Channels)
	}
	if config.BlockSize <= 0 {
		return fmt.Errorf("invalid BlockSize: %d", config.BlockSize)
	}
	if config.QueueDepth <= 0 {
		return fmt.Errorf("invalid QueueDepth: %d", config.QueueDepth)
	}
	return nil
}
