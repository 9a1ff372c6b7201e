//go:build !whispercpp

package recognizer

import "fmt"

func newNativeDecoder(cfg Config) (decoder, error) {
	return nil, fmt.Errorf("native whisper engine unavailable: rebuild with -tags whispercpp, or use engine \"whisper-cli\"")
}
