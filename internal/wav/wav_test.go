package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHeaderLayout(t *testing.T) {
	for _, count := range []uint32{0, 1, 4000, 16000, 160000} {
		h := EncodeHeader(16000, count)

		assert.Equal(t, "RIFF", string(h[0:4]))
		assert.Equal(t, 36+2*count, binary.LittleEndian.Uint32(h[4:8]), "total size for %d samples", count)
		assert.Equal(t, "WAVE", string(h[8:12]))
		assert.Equal(t, "fmt ", string(h[12:16]))
		assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(h[16:20]))
		assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(h[20:22]), "PCM format tag")
		assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(h[22:24]), "mono")
		assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(h[24:28]))
		assert.Equal(t, uint32(32000), binary.LittleEndian.Uint32(h[28:32]), "byte rate")
		assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(h[32:34]), "block align")
		assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(h[34:36]), "bits per sample")
		assert.Equal(t, "data", string(h[36:40]))
		assert.Equal(t, 2*count, binary.LittleEndian.Uint32(h[40:44]), "data size for %d samples", count)
	}
}

func TestEncodeHeaderOtherRate(t *testing.T) {
	h := EncodeHeader(8000, 100)
	assert.Equal(t, uint32(8000), binary.LittleEndian.Uint32(h[24:28]))
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(h[28:32]))
}

// sink is an in-memory WriteSeeker standing in for the spool file.
type sink struct {
	data []byte
	pos  int
}

func (s *sink) Write(p []byte) (int, error) {
	if need := s.pos + len(p); need > len(s.data) {
		s.data = append(s.data, make([]byte, need-len(s.data))...)
	}
	copy(s.data[s.pos:], p)
	s.pos += len(p)
	return len(p), nil
}

func (s *sink) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		s.pos = int(offset)
	case io.SeekCurrent:
		s.pos += int(offset)
	case io.SeekEnd:
		s.pos = len(s.data) + int(offset)
	}
	return int64(s.pos), nil
}

func TestWriterReserveThenFinalize(t *testing.T) {
	s := &sink{}
	w, err := NewWriter(s, 16000)
	require.NoError(t, err)

	placeholder := EncodeHeader(16000, 0)
	require.Equal(t, placeholder[:], s.data, "reserve writes exactly the placeholder header")

	samples := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	_, err = w.Write(samples)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), w.SampleCount())

	require.NoError(t, w.Finalize())

	// Patch is a pure overwrite: total length unchanged, data region intact.
	require.Len(t, s.data, HeaderSize+len(samples))
	assert.Equal(t, samples, s.data[HeaderSize:])

	final := EncodeHeader(16000, 3)
	assert.Equal(t, final[:], s.data[:HeaderSize])
}

func TestWriterFinalizeIdempotent(t *testing.T) {
	s := &sink{}
	w, err := NewWriter(s, 16000)
	require.NoError(t, err)

	_, err = w.Write([]byte{0xAA, 0xBB})
	require.NoError(t, err)

	require.NoError(t, w.Finalize())
	before := append([]byte(nil), s.data...)
	require.NoError(t, w.Finalize())
	assert.Equal(t, before, s.data)
}

func TestContainerDecodesWithRealDecoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	w, err := NewWriter(f, 16000)
	require.NoError(t, err)

	var pcm bytes.Buffer
	for i := 0; i < 1000; i++ {
		binary.Write(&pcm, binary.LittleEndian, int16(i*13))
	}
	_, err = w.Write(pcm.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Finalize())
	require.NoError(t, f.Close())

	r, err := os.Open(path)
	require.NoError(t, err)
	defer r.Close()

	dec := gowav.NewDecoder(r)
	require.True(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.NotNil(t, buf)
	assert.Equal(t, 1000, len(buf.Data))
	assert.Equal(t, 1, buf.Format.NumChannels)
	assert.Equal(t, 16000, buf.Format.SampleRate)
	assert.Equal(t, 13, buf.Data[1])
}
