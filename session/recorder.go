package session

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/oomph-ac/mover/event"
	"github.com/oomph-ac/mover/internal"
	"github.com/oomph-ac/mover/oerror"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"
)

// CurrentRecordingVer is written at the head of every recording so replays can reject
// recordings they cannot decode.
const CurrentRecordingVer = "mover/" + event.EventsVersion

// Recorder writes the events of a movement session to a zstd compressed stream. It is safe to
// write to a Recorder from multiple goroutines.
type Recorder struct {
	mu  deadlock.Mutex
	f   io.Closer
	enc *zstd.Encoder
	w   *bufio.Writer

	closed *atomic.Bool
	events *atomic.Uint64
}

// Create creates the recording file at path, replacing any previous recording, and returns a
// Recorder writing to it.
func Create(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, oerror.New("unable to open recording file: %v", err)
	}
	r, err := NewRecorder(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.f = f
	return r, nil
}

// NewRecorder returns a Recorder writing to w. w is not closed when the Recorder is.
func NewRecorder(w io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, oerror.New("unable to create recording encoder: %v", err)
	}
	r := &Recorder{
		enc:    enc,
		w:      bufio.NewWriterSize(enc, 64*1024),
		closed: atomic.NewBool(false),
		events: atomic.NewUint64(0),
	}
	if _, err := r.w.WriteString(CurrentRecordingVer + "\n"); err != nil {
		return nil, oerror.New("unable to write recording header: %v", err)
	}
	return r, nil
}

// Write appends ev to the recording.
func (r *Recorder) Write(ev event.Event) error {
	if r.closed.Load() {
		return oerror.New("recording already closed")
	}

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)
	event.WriteFrame(buf, ev)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.w.Write(buf.Bytes()); err != nil {
		return oerror.New("unable to write event: %v", err)
	}
	r.events.Inc()
	return nil
}

// Events returns the number of events written so far.
func (r *Recorder) Events() uint64 {
	return r.events.Load()
}

// Closed returns true once Close has been called.
func (r *Recorder) Closed() bool {
	return r.closed.Load()
}

// Close flushes the recording and closes the file it was created with, if any.
func (r *Recorder) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.w.Flush()
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return oerror.New("unable to close recording: %v", err)
	}
	return nil
}
