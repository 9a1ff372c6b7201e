package recognizer

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// decoder runs batch speech-to-text over one utterance of PCM audio.
type decoder interface {
	Decode(ctx context.Context, pcm []byte) (string, error)
	Close() error
}

// segmented pairs the energy segmenter with a batch decoder, giving the
// streaming Feed contract to engines that only transcribe whole clips.
type segmented struct {
	seg             *Segmenter
	dec             decoder
	partials        bool
	partialInterval time.Duration
	lastPartial     time.Time
	now             func() time.Time
}

func newSegmented(cfg Config, dec decoder) *segmented {
	return &segmented{
		seg:             NewSegmenter(cfg),
		dec:             dec,
		partials:        cfg.Partials,
		partialInterval: cfg.PartialInterval,
		now:             time.Now,
	}
}

func (r *segmented) Feed(ctx context.Context, block []byte) (Result, error) {
	utterance, closed := r.seg.Push(block)
	if closed {
		r.lastPartial = time.Time{}
		text, err := r.dec.Decode(ctx, utterance)
		if err != nil {
			return Result{}, fmt.Errorf("decode utterance: %w", err)
		}
		return Result{IsFinal: true, Text: strings.TrimSpace(text)}, nil
	}

	if !r.partials || !r.seg.Active() {
		return Result{}, nil
	}
	now := r.now()
	if !r.lastPartial.IsZero() && now.Sub(r.lastPartial) < r.partialInterval {
		return Result{}, nil
	}
	r.lastPartial = now

	text, err := r.dec.Decode(ctx, r.seg.Pending())
	if err != nil {
		return Result{}, fmt.Errorf("decode partial: %w", err)
	}
	return Result{Text: strings.TrimSpace(text)}, nil
}

func (r *segmented) Close() error {
	return r.dec.Close()
}
