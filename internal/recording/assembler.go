package recording

import "time"

// assembler regroups arbitrarily sized device buffers into fixed-size blocks.
type assembler struct {
	blockBytes int
	samples    int
	buf        []byte
	now        func() time.Time
}

func newAssembler(config Config) *assembler {
	return &assembler{
		blockBytes: config.BlockBytes(),
		samples:    config.BlockSize,
		buf:        make([]byte, 0, config.BlockBytes()),
		now:        time.Now,
	}
}

// Write appends p and emits every complete block. p is not retained.
func (a *assembler) Write(p []byte, emit func(Block)) {
	for len(p) > 0 {
		n := a.blockBytes - len(a.buf)
		if n > len(p) {
			n = len(p)
		}
		a.buf = append(a.buf, p[:n]...)
		p = p[n:]

		if len(a.buf) == a.blockBytes {
			data := make([]byte, a.blockBytes)
			copy(data, a.buf)
			a.buf = a.buf[:0]
			emit(Block{Data: data, Samples: a.samples, Timestamp: a.now()})
		}
	}
}

// Pending returns the number of buffered bytes not yet emitted
func (a *assembler) Pending() int {
	return len(a.buf)
}
