// Package wavenc encodes captured PCM into a WAV payload the cloud
// recognizer accepts.
package wavenc

import (
	"errors"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodePCM16k serializes mono float32 samples in [-1, 1] at 16 kHz
// into a 16-bit PCM WAV file.
func EncodePCM16k(pcm []float32) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, errors.New("no audio samples provided")
	}

	const (
		sampleRate = 16000
		bitDepth   = 16
		channels   = 1
	)

	ints := make([]int, len(pcm))
	for i, v := range pcm {
		s := float64(v) * 32767.0
		if s > 32767 {
			s = 32767
		}
		if s < -32768 {
			s = -32768
		}
		ints[i] = int(s)
	}

	var ws memWriteSeeker
	enc := wav.NewEncoder(&ws, sampleRate, bitDepth, channels, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           ints,
	}
	if err := enc.Write(buf); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return ws.buf, nil
}

// memWriteSeeker is the minimal io.WriteSeeker the wav encoder needs
// to fix up the RIFF header after writing.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.buf) {
		if need > cap(m.buf) {
			grown := make([]byte, len(m.buf), need*2)
			copy(grown, m.buf)
			m.buf = grown
		}
		m.buf = m.buf[:need]
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case io.SeekStart:
		next = int(offset)
	case io.SeekCurrent:
		next = m.pos + int(offset)
	case io.SeekEnd:
		next = len(m.buf) + int(offset)
	default:
		return 0, errors.New("invalid whence")
	}
	if next < 0 {
		return 0, errors.New("negative seek position")
	}
	m.pos = next
	return int64(next), nil
}
