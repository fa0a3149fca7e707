package session

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/oomph-ac/mover/event"
	"github.com/oomph-ac/mover/oerror"
)

// maxFrameSize bounds the size of a single recorded event.
const maxFrameSize = 1 << 20

// Recording is a decoded movement recording.
type Recording struct {
	Version string
	Start   event.StartEvent
	// Events holds every event after the start event, in the order they were written.
	Events []event.Event
}

// Ticks returns the number of tick events in the recording.
func (rec *Recording) Ticks() int {
	n := 0
	for _, ev := range rec.Events {
		if _, ok := ev.(event.TickEvent); ok {
			n++
		}
	}
	return n
}

// Open decodes the recording file at path.
func Open(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oerror.New("unable to open recording file: %v", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a recording written by a Recorder. It returns an error if the recording could not
// be parsed, or if the version of the recording is not supported.
func Decode(r io.Reader) (*Recording, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, oerror.New("unable to create recording decoder: %v", err)
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	version, err := br.ReadString('\n')
	if err != nil {
		return nil, oerror.New("unable to read recording header: %v", err)
	}
	rec := &Recording{Version: strings.TrimSuffix(version, "\n")}
	if rec.Version != CurrentRecordingVer {
		return nil, oerror.New("unsupported recording version: %q", rec.Version)
	}

	var (
		lenBuf   [4]byte
		hasStart bool
	)
	for {
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, oerror.New("unable to read frame length: %v", err)
		}
		n := binary.LittleEndian.Uint32(lenBuf[:])
		if n > maxFrameSize {
			return nil, oerror.New("frame of %d bytes exceeds the limit of %d", n, maxFrameSize)
		}
		frame := make([]byte, n)
		if _, err := io.ReadFull(br, frame); err != nil {
			return nil, oerror.New("unable to read frame: %v", err)
		}

		ev, err := event.DecodeEvent(bytes.NewBuffer(frame))
		if err != nil {
			return nil, oerror.New("unable to decode event: %v", err)
		}
		if !hasStart {
			start, ok := ev.(event.StartEvent)
			if !ok {
				return nil, oerror.New("recording does not begin with a start event (got %d)", ev.ID())
			}
			rec.Start, hasStart = start, true
			continue
		}
		rec.Events = append(rec.Events, ev)
	}
	if !hasStart {
		return nil, oerror.New("recording holds no start event")
	}
	return rec, nil
}
