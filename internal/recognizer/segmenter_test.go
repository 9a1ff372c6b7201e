package recognizer

import (
	"encoding/binary"
	"testing"
	"time"
)

// pcmBlock returns a 250ms mono block at 16kHz with every sample set to amplitude
func pcmBlock(amplitude int16) []byte {
	block := make([]byte, 4000*2)
	for i := 0; i < 4000; i++ {
		binary.LittleEndian.PutUint16(block[i*2:], uint16(amplitude))
	}
	return block
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SilenceMs = 500
	cfg.MaxUtterance = 2 * time.Second
	cfg.RMSThreshold = 300
	return cfg
}

func TestSegmenter_SilenceOnly(t *testing.T) {
	seg := NewSegmenter(testConfig())
	for i := 0; i < 20; i++ {
		if utt, closed := seg.Push(pcmBlock(0)); closed || utt != nil {
			t.Fatalf("silence closed an utterance at block %d", i)
		}
	}
	if seg.Active() {
		t.Error("segmenter should stay idle on silence")
	}
}

func TestSegmenter_ClosesAfterSilence(t *testing.T) {
	seg := NewSegmenter(testConfig())

	steps := []struct {
		amplitude  int16
		wantClosed bool
	}{
		{amplitude: 2000},
		{amplitude: 2000},
		{amplitude: 50},
		{amplitude: 50, wantClosed: true},
		{amplitude: 50},
	}

	for i, step := range steps {
		utt, closed := seg.Push(pcmBlock(step.amplitude))
		if closed != step.wantClosed {
			t.Fatalf("step %d: closed = %v, want %v", i, closed, step.wantClosed)
		}
		if closed && len(utt) != 4*8000 {
			t.Errorf("step %d: utterance has %d bytes, want %d", i, len(utt), 4*8000)
		}
	}
	if seg.Active() {
		t.Error("segmenter should be idle after closing")
	}
}

func TestSegmenter_SpeechResetsSilence(t *testing.T) {
	seg := NewSegmenter(testConfig())

	for i, amp := range []int16{2000, 50, 2000, 50} {
		if _, closed := seg.Push(pcmBlock(amp)); closed {
			t.Fatalf("closed too early at block %d", i)
		}
	}
	if _, closed := seg.Push(pcmBlock(50)); !closed {
		t.Error("expected close after 500ms of trailing silence")
	}
}

func TestSegmenter_MaxUtterance(t *testing.T) {
	seg := NewSegmenter(testConfig())

	for i := 0; i < 7; i++ {
		if _, closed := seg.Push(pcmBlock(2000)); closed {
			t.Fatalf("closed before max length at block %d", i)
		}
	}
	utt, closed := seg.Push(pcmBlock(2000))
	if !closed {
		t.Fatal("expected close at max utterance length")
	}
	if len(utt) != 8*8000 {
		t.Errorf("utterance has %d bytes, want %d", len(utt), 8*8000)
	}
}

func TestSegmenter_PendingAndReset(t *testing.T) {
	seg := NewSegmenter(testConfig())
	seg.Push(pcmBlock(2000))

	if !seg.Active() || len(seg.Pending()) != 8000 {
		t.Fatalf("expected one pending block, active=%v pending=%d", seg.Active(), len(seg.Pending()))
	}
	seg.Reset()
	if seg.Active() || len(seg.Pending()) != 0 {
		t.Error("Reset should clear the open utterance")
	}
}

func TestComputeRMS(t *testing.T) {
	if got := computeRMS(pcmBlock(1000)); got != 1000 {
		t.Errorf("RMS of constant 1000 = %v", got)
	}
	if got := computeRMS(pcmBlock(-1000)); got != 1000 {
		t.Errorf("RMS of constant -1000 = %v", got)
	}
	if got := computeRMS(nil); got != 0 {
		t.Errorf("RMS of empty = %v", got)
	}
}

func TestConvertToWAV(t *testing.T) {
	pcm := pcmBlock(10)
	wav := convertToWAV(pcm, 16000, 1)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("wav length = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Error("invalid WAV header")
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 16000 {
		t.Errorf("sample rate = %d", rate)
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); int(size) != len(pcm) {
		t.Errorf("data size = %d", size)
	}
}

func TestPcmToFloat32Mono(t *testing.T) {
	stereo := make([]byte, 8)
	binary.LittleEndian.PutUint16(stereo[0:], uint16(16384))
	binary.LittleEndian.PutUint16(stereo[2:], 0)
	binary.LittleEndian.PutUint16(stereo[4:], uint16(0x8000)) // -32768
	binary.LittleEndian.PutUint16(stereo[6:], uint16(0x8000))

	got := pcmToFloat32Mono(stereo, 2)
	if len(got) != 2 || got[0] != 0.25 || got[1] != -1 {
		t.Errorf("unexpected samples %v", got)
	}
}
