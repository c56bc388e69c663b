package capture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// virtualClock advances instantly to whatever deadline the engine asks for
// and records every requested instant.
type virtualClock struct {
	now   time.Time
	waits []time.Time
}

func newVirtualClock() *virtualClock {
	return &virtualClock{now: time.Unix(1000, 0)}
}

func (c *virtualClock) Now() time.Time { return c.now }

func (c *virtualClock) WaitUntil(t time.Time) {
	c.waits = append(c.waits, t)
	if t.After(c.now) {
		c.now = t
	}
}

type fakeADC struct {
	bits   int
	sample uint16
	err    error
	reads  int
	onRead func(n int)
}

func (a *fakeADC) Bits() int { return a.bits }

func (a *fakeADC) Read() (uint16, error) {
	a.reads++
	if a.onRead != nil {
		a.onRead(a.reads)
	}
	return a.sample, a.err
}

func holdFor(samples int) func() bool {
	n := 0
	return func() bool {
		n++
		return n <= samples
	}
}

func TestCaptureWidensToSixteenBits(t *testing.T) {
	clock := newVirtualClock()
	adc := &fakeADC{bits: 12, sample: 0x0ABC}
	eng := NewEngine(adc, clock)

	var sink bytes.Buffer
	n, err := eng.Capture(&sink, holdFor(5000), Params{SampleRate: 16000, MaxDuration: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 5000, n)
	assert.Equal(t, 2*5000, sink.Len())

	// 12-bit sample shifted left by 4, little-endian.
	assert.Equal(t, uint16(0xABC0), binary.LittleEndian.Uint16(sink.Bytes()[:2]))
}

func TestCaptureTooShortBoundary(t *testing.T) {
	// Exactly rate/4 samples is still a failure; one more is success.
	cases := []struct {
		samples int
		wantErr error
	}{
		{4000, ErrTooShort},
		{4001, nil},
	}

	for _, tc := range cases {
		clock := newVirtualClock()
		eng := NewEngine(&fakeADC{bits: 16}, clock)

		var sink bytes.Buffer
		n, err := eng.Capture(&sink, holdFor(tc.samples), Params{SampleRate: 16000, MaxDuration: time.Second})
		assert.Equal(t, tc.samples, n)
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr)
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestCaptureStopsAtMaxDuration(t *testing.T) {
	clock := newVirtualClock()
	eng := NewEngine(&fakeADC{bits: 16}, clock)

	var sink bytes.Buffer
	n, err := eng.Capture(&sink, func() bool { return true }, Params{SampleRate: 16000, MaxDuration: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 16000, n)
}

type failAfter struct {
	writes int
	limit  int
}

func (f *failAfter) Write(p []byte) (int, error) {
	f.writes++
	if f.writes > f.limit {
		return 0, errors.New("card pulled")
	}
	return len(p), nil
}

func TestCaptureAbortsOnWriteFailure(t *testing.T) {
	clock := newVirtualClock()
	eng := NewEngine(&fakeADC{bits: 16}, clock)

	sink := &failAfter{limit: 7}
	n, err := eng.Capture(sink, func() bool { return true }, Params{SampleRate: 16000, MaxDuration: time.Second})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTooShort)
	assert.Equal(t, 7, n, "samples before the failed write stay counted")
	assert.Equal(t, 8, sink.writes, "loop stops on the first failed write")
}

func TestCaptureReadFailureAborts(t *testing.T) {
	clock := newVirtualClock()
	adc := &fakeADC{bits: 16}
	adc.onRead = func(n int) {
		if n == 10 {
			adc.err = errors.New("adc gone")
		}
	}
	eng := NewEngine(adc, clock)

	var sink bytes.Buffer
	n, err := eng.Capture(&sink, func() bool { return true }, Params{SampleRate: 16000, MaxDuration: time.Second})
	require.Error(t, err)
	assert.Equal(t, 9, n)
}

func TestCaptureDeadlinesDoNotDrift(t *testing.T) {
	clock := newVirtualClock()
	start := clock.Now()
	adc := &fakeADC{bits: 16}
	// Simulate an overrun on every third sample: the loop body takes 2.5
	// sample periods of wall time.
	adc.onRead = func(n int) {
		if n%3 == 0 {
			clock.now = clock.now.Add(156 * time.Microsecond)
		}
	}
	eng := NewEngine(adc, clock)

	var sink bytes.Buffer
	_, err := eng.Capture(&sink, holdFor(5000), Params{SampleRate: 16000, MaxDuration: time.Second})
	require.NoError(t, err)

	// Every scheduled instant must be start + i*interval exactly: deadlines
	// derive from the previous deadline, never from the current time.
	interval := time.Second / 16000
	require.Len(t, clock.waits, 5000)
	for i, w := range clock.waits {
		require.Equal(t, start.Add(time.Duration(i)*interval), w, "deadline %d drifted", i)
	}
}
