package recording

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leonardotrapani/livetranslate/internal/deps"
)

// PipeWireSource records through a pw-record child process writing raw s16
// samples to stdout.
type PipeWireSource struct {
	config    Config
	recording atomic.Bool

	mu     sync.Mutex // guards cmd and cancel
	cmd    *exec.Cmd
	cancel context.CancelFunc

	wg sync.WaitGroup
}

func NewPipeWireSource(config Config) *PipeWireSource {
	return &PipeWireSource{config: config}
}

func (r *PipeWireSource) IsRecording() bool {
	return r.recording.Load()
}

func (r *PipeWireSource) Start(ctx context.Context) (<-chan Block, <-chan error, error) {
	if r.recording.Load() {
		return nil, nil, fmt.Errorf("already recording")
	}

	if err := validateConfig(r.config); err != nil {
		return nil, nil, err
	}

	if err := deps.Require("pw-record", deps.CheckPwRecord(), "install pipewire-tools"); err != nil {
		return nil, nil, fmt.Errorf("PipeWire not available: %w", err)
	}

	target, err := r.resolveTarget(ctx)
	if err != nil {
		return nil, nil, err
	}

	// Create a cancellable context specific to this recording session.
	recordingCtx, cancel := context.WithCancel(ctx)

	args := r.buildPwRecordArgs(target)
	cmd := exec.CommandContext(recordingCtx, "pw-record", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("start pw-record: %w", err)
	}

	queue := NewQueue(r.config.QueueDepth, r.config.Warn)
	errCh := make(chan error, 1)

	r.mu.Lock()
	r.cmd = cmd
	r.cancel = cancel
	r.mu.Unlock()

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			r.config.Warn.warnf("pw-record: %s", scanner.Text())
		}
	}()

	r.recording.Store(true)
	r.wg.Add(1)
	go r.captureLoop(recordingCtx, stdout, queue, errCh)

	return queue.C(), errCh, nil
}

func (r *PipeWireSource) Stop() error {
	if !r.recording.Load() {
		return nil
	}

	r.requestCancel()
	r.wg.Wait()
	return nil
}

func (r *PipeWireSource) captureLoop(ctx context.Context, stdout io.Reader, queue *Queue, errCh chan<- error) {
	defer func() {
		queue.Close()
		close(errCh)
		r.recording.Store(false)

		// Ensure the child process is reaped.
		r.mu.Lock()
		if r.cmd != nil {
			_ = r.cmd.Wait()
			r.cmd = nil
		}
		r.cancel = nil
		r.mu.Unlock()

		r.wg.Done()
	}()

	asm := newAssembler(r.config)
	buffer := make([]byte, r.config.BlockBytes())
	start := time.Now()
	var blocks int

	for {
		n, readErr := stdout.Read(buffer)
		if n > 0 {
			asm.Write(buffer[:n], func(b Block) {
				blocks++
				queue.Push(b)
			})
		}

		if readErr != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(readErr, io.EOF) {
				log.Printf("Recording: pw-record closed its output after %d blocks (%v)", blocks, time.Since(start).Round(time.Millisecond))
				r.emitErr(errCh, fmt.Errorf("pw-record exited unexpectedly"))
				return
			}
			r.emitErr(errCh, fmt.Errorf("read audio: %w", readErr))
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (r *PipeWireSource) requestCancel() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *PipeWireSource) emitErr(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
		// Best-effort; avoid blocking
	}
	log.Printf("Recording error: %v", err)
}

// resolveTarget maps the device selector to a node name for --target.
// Without pw-cli the selector is passed through unchanged.
func (r *PipeWireSource) resolveTarget(ctx context.Context) (string, error) {
	if IsDefaultSelector(r.config.Device) {
		return "", nil
	}
	devices, err := listPipeWireDevices(ctx)
	if err != nil {
		log.Printf("Recording: cannot list PipeWire sources, using %q as target: %v", r.config.Device, err)
		return r.config.Device, nil
	}
	dev, err := SelectDevice(devices, r.config.Device)
	if err != nil {
		return "", err
	}
	return dev.ID, nil
}

func (r *PipeWireSource) buildPwRecordArgs(target string) []string {
	args := []string{
		"--format", "s16",
		"--rate", strconv.Itoa(r.config.SampleRate),
		"--channels", strconv.Itoa(r.config.Channels),
	}
	if target != "" {
		args = append(args, "--target", target)
	}
	return append(args, "-") // stdout
}
