package recognizer

import "time"

// Segmenter splits a PCM stream into utterances using block energy.
// An utterance opens on the first block above the RMS threshold and closes
// after enough trailing silence or when it reaches the maximum length.
type Segmenter struct {
	threshold    float64
	silence      time.Duration
	maxUtterance time.Duration
	sampleRate   int
	channels     int

	buf      []byte
	speaking bool
	silent   time.Duration
	length   time.Duration
}

func NewSegmenter(cfg Config) *Segmenter {
	return &Segmenter{
		threshold:    cfg.RMSThreshold,
		silence:      time.Duration(cfg.SilenceMs) * time.Millisecond,
		maxUtterance: cfg.MaxUtterance,
		sampleRate:   cfg.SampleRate,
		channels:     cfg.Channels,
	}
}

// Push consumes one block. When the block closes an utterance its audio is
// returned with closed set; the segmenter is then idle again.
func (s *Segmenter) Push(block []byte) (utterance []byte, closed bool) {
	d := time.Duration(pcmDuration(block, s.sampleRate, s.channels) * float64(time.Second))

	if computeRMS(block) < s.threshold {
		if !s.speaking {
			return nil, false
		}
		s.buf = append(s.buf, block...)
		s.length += d
		s.silent += d
		if s.silent >= s.silence {
			return s.take(), true
		}
		return nil, false
	}

	s.speaking = true
	s.silent = 0
	s.buf = append(s.buf, block...)
	s.length += d
	if s.maxUtterance > 0 && s.length >= s.maxUtterance {
		return s.take(), true
	}
	return nil, false
}

// Active reports whether an utterance is currently open
func (s *Segmenter) Active() bool {
	return s.speaking
}

// Pending returns the audio of the open utterance. The slice is only valid
// until the next Push.
func (s *Segmenter) Pending() []byte {
	return s.buf
}

func (s *Segmenter) Reset() {
	s.buf = nil
	s.speaking = false
	s.silent = 0
	s.length = 0
}

func (s *Segmenter) take() []byte {
	out := s.buf
	s.Reset()
	return out
}
