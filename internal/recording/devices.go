package recording

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gen2brain/malgo"
)

// Device is a capture device as reported by the backend.
type Device struct {
	Index   int
	ID      string // backend identifier (pipewire node name, miniaudio device name)
	Name    string
	Default bool
}

// IsDefaultSelector reports whether selector means "platform default device"
func IsDefaultSelector(selector string) bool {
	s := strings.TrimSpace(selector)
	return s == "" || strings.EqualFold(s, "default")
}

// SelectDevice resolves a selector against devices: an integer picks by
// index, anything else matches ID or Name exactly, then as a
// case-insensitive substring of Name.
func SelectDevice(devices []Device, selector string) (Device, error) {
	selector = strings.TrimSpace(selector)
	if IsDefaultSelector(selector) {
		for _, d := range devices {
			if d.Default {
				return d, nil
			}
		}
		if len(devices) > 0 {
			return devices[0], nil
		}
		return Device{}, fmt.Errorf("no capture devices available")
	}

	if idx, err := strconv.Atoi(selector); err == nil {
		for _, d := range devices {
			if d.Index == idx {
				return d, nil
			}
		}
		return Device{}, fmt.Errorf("no capture device with index %d", idx)
	}

	for _, d := range devices {
		if d.ID == selector || d.Name == selector {
			return d, nil
		}
	}

	lower := strings.ToLower(selector)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), lower) {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("no capture device matching %q", selector)
}

// ListDevices enumerates capture devices for the given backend
func ListDevices(ctx context.Context, backend string) ([]Device, error) {
	switch backend {
	case "malgo", "":
		return listMalgoDevices()
	case "pipewire":
		return listPipeWireDevices(ctx)
	default:
		return nil, fmt.Errorf("unsupported audio backend: %s", backend)
	}
}

func listMalgoDevices() ([]Device, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	infos, err := mctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}
	return fromMalgoInfos(infos), nil
}

func fromMalgoInfos(infos []malgo.DeviceInfo) []Device {
	devices := make([]Device, 0, len(infos))
	for i, info := range infos {
		name := info.Name()
		devices = append(devices, Device{
			Index:   i,
			ID:      name,
			Name:    name,
			Default: info.IsDefault != 0,
		})
	}
	return devices
}

func listPipeWireDevices(ctx context.Context) ([]Device, error) {
	if _, err := exec.LookPath("pw-cli"); err != nil {
		return nil, fmt.Errorf("pw-cli not found: %w (install pipewire-tools)", err)
	}
	listCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(listCtx, "pw-cli", "list-objects", "Node").Output()
	if err != nil {
		return nil, fmt.Errorf("pw-cli list-objects: %w", err)
	}
	return parsePwCliNodes(strings.NewReader(string(output))), nil
}

// parsePwCliNodes extracts Audio/Source nodes from `pw-cli list-objects Node`
func parsePwCliNodes(r io.Reader) []Device {
	var devices []Device
	props := map[string]string{}

	flush := func() {
		if props["media.class"] == "Audio/Source" {
			name := props["node.description"]
			if name == "" {
				name = props["node.name"]
			}
			devices = append(devices, Device{
				Index: len(devices),
				ID:    props["node.name"],
				Name:  name,
			})
		}
		props = map[string]string{}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "id ") {
			flush()
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		props[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	flush()

	return devices
}
