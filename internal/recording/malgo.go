package recording

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"
)

// MalgoSource captures from a miniaudio device. The data callback runs on
// the audio thread and only copies into the assembler and the queue.
type MalgoSource struct {
	config Config

	mu      sync.Mutex // guards session
	session *malgoSession
}

type malgoSession struct {
	mctx   *malgo.AllocatedContext
	device *malgo.Device
	queue  *Queue
	done   chan struct{}

	errMu     sync.Mutex // guards errCh and errClosed
	errCh     chan error
	errClosed bool
	stopping  bool
}

func NewMalgoSource(config Config) *MalgoSource {
	return &MalgoSource{config: config}
}

func (s *MalgoSource) Start(ctx context.Context) (<-chan Block, <-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return nil, nil, fmt.Errorf("already recording")
	}
	if err := validateConfig(s.config); err != nil {
		return nil, nil, err
	}

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		s.config.Warn.warnf("miniaudio: %s", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init audio context: %w", err)
	}
	release := func() {
		_ = mctx.Uninit()
		mctx.Free()
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(s.config.Channels)
	deviceConfig.SampleRate = uint32(s.config.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(s.config.BlockSize)

	var infos []malgo.DeviceInfo
	if !IsDefaultSelector(s.config.Device) {
		infos, err = mctx.Devices(malgo.Capture)
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("enumerate capture devices: %w", err)
		}
		dev, err := SelectDevice(fromMalgoInfos(infos), s.config.Device)
		if err != nil {
			release()
			return nil, nil, err
		}
		deviceConfig.Capture.DeviceID = infos[dev.Index].ID.Pointer()
		log.Printf("Recording: using capture device %d (%s)", dev.Index, dev.Name)
	}

	session := &malgoSession{
		mctx:  mctx,
		queue: NewQueue(s.config.QueueDepth, s.config.Warn),
		errCh: make(chan error, 1),
		done:  make(chan struct{}),
	}
	asm := newAssembler(s.config)

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			asm.Write(input, session.queue.Push)
		},
		Stop: func() {
			if session.emitErr(fmt.Errorf("capture device stopped unexpectedly")) {
				go s.Stop()
			}
		},
	}

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, callbacks)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("open capture device: %w", err)
	}
	session.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		release()
		return nil, nil, fmt.Errorf("start capture device: %w", err)
	}

	s.session = session
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Stop()
		case <-session.done:
		}
	}()

	return session.queue.C(), session.errCh, nil
}

func (s *MalgoSource) Stop() error {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if session == nil {
		return nil
	}

	session.errMu.Lock()
	session.stopping = true
	session.errMu.Unlock()

	// Uninit waits for the audio thread, so no callback runs afterwards
	session.device.Uninit()
	err := session.mctx.Uninit()
	session.mctx.Free()

	session.queue.Close()
	session.closeErr()
	close(session.done)

	if err != nil {
		return fmt.Errorf("release audio context: %w", err)
	}
	return nil
}

// emitErr delivers err unless the session is already stopping.
// Reports whether the error was accepted.
func (m *malgoSession) emitErr(err error) bool {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	if m.stopping || m.errClosed {
		return false
	}
	log.Printf("Recording error: %v", err)
	select {
	case m.errCh <- err:
	default:
	}
	return true
}

func (m *malgoSession) closeErr() {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	if !m.errClosed {
		m.errClosed = true
		close(m.errCh)
	}
}
