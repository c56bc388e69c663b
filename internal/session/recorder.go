package session

import (
	"fmt"
	log "log/slog"
	"os"

	"talkie/internal/capture"
	"talkie/internal/wav"
)

// Recorder produces one finalized audio container per push-to-talk hold.
type Recorder interface {
	// Record captures while held() reports true and returns the container
	// path. ok is false when the capture is not viable (too short, write
	// failure); the container is still finalized and left in place either
	// way so failures can be inspected. An empty path means no container
	// could be created at all.
	Record(held func() bool) (path string, ok bool)
}

// SpoolRecorder owns the spool directory and the capture/finalize sequence:
// reserve header, sample, patch header. The sink is exclusively its own
// between Record entry and return.
type SpoolRecorder struct {
	engine *capture.Engine
	params capture.Params
	dir    string
}

func NewSpoolRecorder(engine *capture.Engine, params capture.Params, dir string) *SpoolRecorder {
	if dir == "" {
		dir = os.TempDir()
	}
	return &SpoolRecorder{engine: engine, params: params, dir: dir}
}

func (r *SpoolRecorder) Record(held func() bool) (string, bool) {
	f, err := os.CreateTemp(r.dir, "talkie-*.wav")
	if err != nil {
		log.Error("create container", "err", err)
		return "", false
	}
	path := f.Name()

	ok, err := r.record(f, held)
	if cerr := f.Close(); cerr != nil {
		log.Error("close container", "path", path, "err", cerr)
		ok = false
	}
	if err != nil {
		log.Warn("capture not viable", "path", path, "err", err)
	}
	return path, ok
}

func (r *SpoolRecorder) record(f *os.File, held func() bool) (bool, error) {
	w, err := wav.NewWriter(f, r.params.SampleRate)
	if err != nil {
		return false, err
	}

	n, capErr := r.engine.Capture(w, held, r.params)

	// Finalize even after a failed capture: the samples that made it to
	// storage deserve a coherent header.
	if err := w.Finalize(); err != nil {
		return false, fmt.Errorf("finalize after %d samples: %w", n, err)
	}
	if capErr != nil {
		return false, capErr
	}

	log.Info("captured", "samples", n, "rate", r.params.SampleRate, "path", f.Name())
	return true, nil
}
