package capture

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

const micFrameSize = 256

// Mic adapts the default portaudio input stream to the one-sample-at-a-time
// ADC contract. Frames are pulled from the device as they drain, so Read
// blocks on the hardware rather than on the scheduler; the engine's deadline
// loop still paces the sink writes.
type Mic struct {
	stream *portaudio.Stream
	buf    []float32
	pos    int
	filled int
}

// OpenMic initializes portaudio and opens a mono input stream at rate.
// Close must be called to release the device and terminate portaudio.
func OpenMic(rate int) (*Mic, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("init portaudio: %w", err)
	}

	m := &Mic{buf: make([]float32, micFrameSize)}
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(rate), len(m.buf), m.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	m.stream = stream
	return m, nil
}

func (m *Mic) Bits() int { return 16 }

func (m *Mic) Read() (uint16, error) {
	if m.pos >= m.filled {
		if err := m.stream.Read(); err != nil {
			return 0, err
		}
		m.pos = 0
		m.filled = len(m.buf)
	}

	f := m.buf[m.pos]
	m.pos++

	if f > 1 {
		f = 1
	} else if f < -1 {
		f = -1
	}
	return uint16(int16(f * 32767)), nil
}

func (m *Mic) Close() error {
	var err error
	if m.stream != nil {
		m.stream.Stop()
		err = m.stream.Close()
	}
	portaudio.Terminate()
	return err
}
