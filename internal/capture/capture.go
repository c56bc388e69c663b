// Package capture drains a single analog channel at a fixed rate into a
// 16-bit little-endian PCM sink for as long as the push-to-talk control is
// held.
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrTooShort marks a capture below the minimum viable duration (250 ms).
// Accidental taps land here.
var ErrTooShort = errors.New("recording too short")

// ADC reads one sample from the analog input at its native resolution.
type ADC interface {
	Read() (uint16, error)
	// Bits is the native sample resolution; samples are widened to 16 bits
	// by shifting left 16-Bits().
	Bits() int
}

// Clock schedules sample instants. The wall clock sleeps; tests substitute a
// virtual one.
type Clock interface {
	Now() time.Time
	WaitUntil(t time.Time)
}

// Params bound a single capture session.
type Params struct {
	SampleRate  int
	MaxDuration time.Duration
}

func (p Params) maxSamples() int {
	return int(int64(p.SampleRate) * int64(p.MaxDuration) / int64(time.Second))
}

// Engine owns the sampling loop. One capture runs at a time; nothing else in
// the process runs concurrently with it.
type Engine struct {
	adc   ADC
	clock Clock
}

func NewEngine(adc ADC, clock Clock) *Engine {
	return &Engine{adc: adc, clock: clock}
}

// Capture samples while held() reports true, appending two bytes per sample
// to sink. It returns the number of samples written and an error when the
// capture is not usable: a write failure aborts immediately (samples already
// written stay valid and must still be finalized by the caller), and a
// capture of rate/4 samples or fewer returns ErrTooShort.
//
// Each sample deadline is the previous deadline plus the fixed interval, so
// an occasional overrun does not accumulate into a long-term rate error.
func (e *Engine) Capture(sink io.Writer, held func() bool, p Params) (int, error) {
	interval := time.Second / time.Duration(p.SampleRate)
	shift := uint(16 - e.adc.Bits())
	maxSamples := p.maxSamples()

	var frame [2]byte
	n := 0
	deadline := e.clock.Now()

	for n < maxSamples && held() {
		e.clock.WaitUntil(deadline)
		deadline = deadline.Add(interval)

		s, err := e.adc.Read()
		if err != nil {
			return n, fmt.Errorf("read sample: %w", err)
		}
		binary.LittleEndian.PutUint16(frame[:], s<<shift)
		if _, err := sink.Write(frame[:]); err != nil {
			return n, fmt.Errorf("write sample: %w", err)
		}
		n++
	}

	if n <= p.SampleRate/4 {
		return n, ErrTooShort
	}
	return n, nil
}
