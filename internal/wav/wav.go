// Package wav writes the fixed 44-byte RIFF/WAVE header for 16-bit mono PCM
// and finalizes it in place once the true sample count is known.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the byte length of the header; both the reserve write and
// the finalize write produce exactly this many bytes.
const HeaderSize = 44

const (
	bitsPerSample  = 16
	bytesPerSample = 2
	channels       = 1
)

// EncodeHeader lays out the canonical mono 16-bit PCM header.
// Multi-byte fields are little-endian.
func EncodeHeader(sampleRate int, sampleCount uint32) [HeaderSize]byte {
	dataSize := sampleCount * bytesPerSample

	var h [HeaderSize]byte
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], 36+dataSize)
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(h[22:24], channels)
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(sampleRate*bytesPerSample))
	binary.LittleEndian.PutUint16(h[32:34], bytesPerSample) // block align
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)
	return h
}

// Writer reserves a placeholder header, counts the sample bytes appended
// after it, and patches the header once capture is done. The patch is a pure
// overwrite: it never moves or resizes anything after byte 43.
type Writer struct {
	ws         io.WriteSeeker
	sampleRate int
	dataBytes  uint32
	finalized  bool
}

// NewWriter writes the placeholder header (sample count 0) and positions the
// sink at the start of the data region.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	h := EncodeHeader(sampleRate, 0)
	if _, err := ws.Write(h[:]); err != nil {
		return nil, fmt.Errorf("reserve header: %w", err)
	}
	return &Writer{ws: ws, sampleRate: sampleRate}, nil
}

// Write appends raw little-endian sample bytes to the data region.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.ws.Write(p)
	w.dataBytes += uint32(n)
	return n, err
}

// SampleCount reports how many whole 16-bit samples were appended so far.
func (w *Writer) SampleCount() uint32 {
	return w.dataBytes / bytesPerSample
}

// Finalize seeks back to the start and rewrites the header with the true
// sample count. Safe to call after a failed capture; whatever was written is
// still described correctly.
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	if _, err := w.ws.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek header: %w", err)
	}
	h := EncodeHeader(w.sampleRate, w.SampleCount())
	if _, err := w.ws.Write(h[:]); err != nil {
		return fmt.Errorf("finalize header: %w", err)
	}
	w.finalized = true
	return nil
}
