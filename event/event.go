package event

import (
	"bytes"
	"encoding/binary"

	"github.com/oomph-ac/mover/internal"
	"github.com/oomph-ac/mover/oerror"
)

// EventsVersion is bumped whenever the encoding of an event changes.
const EventsVersion = "1"

const (
	_ = iota
	EventIDStart
	EventIDTick
	EventIDQueueMove
	EventIDSettings
)

// Event is a single entry of a movement recording.
type Event interface {
	ID() byte
	Encode() []byte

	// Time is the simulation time, in milliseconds, the event happened at.
	Time() float64
}

// NopEvent carries the time shared by every event.
type NopEvent struct {
	EvTime float64
}

func (n NopEvent) Time() float64 {
	return n.EvTime
}

// WriteEventHeader writes the ID and time of ev to buf.
func WriteEventHeader(ev Event, buf *bytes.Buffer) {
	buf.WriteByte(ev.ID())
	writeFloat64(buf, ev.Time())
}

// encode runs enc over a pooled buffer and returns a copy of what was written.
func encode(ev Event, enc func(buf *bytes.Buffer)) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	enc(buf)
	return append([]byte(nil), buf.Bytes()...)
}

// DecodeEvents decodes every event encoded back to back in dat.
func DecodeEvents(dat []byte) ([]Event, error) {
	buf := bytes.NewBuffer(dat)
	events := []Event{}
	for buf.Len() > 0 {
		ev, err := DecodeEvent(buf)
		if err != nil {
			return events, oerror.New("error decoding event: %v", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// DecodeEvent decodes the next event in buf.
func DecodeEvent(buf *bytes.Buffer) (Event, error) {
	r := &reader{buf: buf}
	id := r.byte()
	t := r.float64()
	if r.err != nil {
		return nil, oerror.New("error reading event header: %v", r.err)
	}

	var ev Event
	switch id {
	case EventIDStart:
		ev = decodeStart(r, t)
	case EventIDTick:
		ev = decodeTick(r, t)
	case EventIDQueueMove:
		ev = decodeQueueMove(r, t)
	case EventIDSettings:
		ev = decodeSettings(r, t)
	default:
		return nil, oerror.New("unknown event: %d", id)
	}
	if r.err != nil {
		return nil, oerror.New("error decoding event %d: %v", id, r.err)
	}
	return ev, nil
}

// WriteFrame writes ev to buf prefixed by its length.
func WriteFrame(buf *bytes.Buffer, ev Event) {
	dat := ev.Encode()
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(dat)))
	buf.Write(dat)
}
