// Package midifile reads Standard MIDI Files into note events and turns them
// into MIDI regions, and writes the MIDI regions of a track back out.
package midifile

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

type (
	// File is a decoded Standard MIDI File. Only the parts needed for
	// importing notes are kept: note on/off events per track, track names and
	// the tempo points.
	File struct {
		Format       int
		TicksPerBeat int
		Tracks       []Track
		Tempo        []TempoPoint
	}

	Track struct {
		Name   string
		Events []Event
	}

	// Event is a note on or note off at an absolute tick.
	Event struct {
		Tick     int64
		Kind     EventKind
		Channel  uint8
		Pitch    uint8
		Velocity uint8
	}

	EventKind int

	TempoPoint struct {
		Tick int64
		BPM  float64
	}
)

const (
	NoteOff EventKind = iota
	NoteOn
)

// DefaultTicksPerBeat is used when the header has SMPTE timing or a zero
// division.
const DefaultTicksPerBeat = 480

var ErrBadHeader = errors.New("midifile: missing or malformed MThd header")

var (
	headerMagic = []byte("MThd")
	trackMagic  = []byte("MTrk")
)

// Decode parses a Standard MIDI File. Only a bad header and a too long
// variable-length quantity are errors: a chunk that is not a track ends the
// track list, and a track that runs out of bytes ends where the bytes do.
func Decode(data []byte) (*File, error) {
	return DecodeContext(context.Background(), data)
}

// DecodeContext is like Decode but stops with the context's error when ctx is
// done. The context is checked between track chunks.
func DecodeContext(ctx context.Context, data []byte) (*File, error) {
	if len(data) < 14 || !bytes.Equal(data[:4], headerMagic) {
		return nil, ErrBadHeader
	}
	headerLen := int(binary.BigEndian.Uint32(data[4:8]))
	if headerLen < 6 || headerLen > len(data)-8 {
		return nil, ErrBadHeader
	}
	f := &File{
		Format:       int(binary.BigEndian.Uint16(data[8:10])),
		TicksPerBeat: int(binary.BigEndian.Uint16(data[12:14])),
	}
	numTracks := int(binary.BigEndian.Uint16(data[10:12]))
	if f.TicksPerBeat&0x8000 != 0 || f.TicksPerBeat == 0 {
		f.TicksPerBeat = DefaultTicksPerBeat
	}
	pos := 8 + headerLen
	for i := 0; i < numTracks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pos+8 > len(data) || !bytes.Equal(data[pos:pos+4], trackMagic) {
			break
		}
		length := int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
		start := pos + 8
		end := len(data)
		if length < end-start {
			end = start + length
		}
		t, err := f.decodeTrack(data[start:end])
		if err != nil {
			return nil, fmt.Errorf("midifile: track %d: %w", i, err)
		}
		f.Tracks = append(f.Tracks, t)
		pos = end
	}
	return f, nil
}

func (f *File) decodeTrack(b []byte) (Track, error) {
	var (
		t       Track
		tick    int64
		running byte
		pos     int
	)
	for pos < len(b) {
		delta, n, err := ReadVLQ(b[pos:])
		if errors.Is(err, ErrVLQTooLong) {
			return t, err
		}
		if err != nil {
			break
		}
		pos += n
		tick += int64(delta)
		if pos >= len(b) {
			break
		}
		status := b[pos]
		if status < 0x80 {
			if running == 0 {
				break
			}
			status = running
		} else {
			pos++
		}
		switch {
		case status == 0xFF:
			if pos >= len(b) {
				return t, nil
			}
			typ := b[pos]
			pos++
			length, n, err := ReadVLQ(b[pos:])
			if errors.Is(err, ErrVLQTooLong) {
				return t, err
			}
			if err != nil {
				return t, nil
			}
			pos += n
			if int(length) > len(b)-pos {
				return t, nil
			}
			payload := b[pos : pos+int(length)]
			pos += int(length)
			switch typ {
			case 0x03:
				t.Name = trackName(payload)
			case 0x51:
				if len(payload) >= 3 {
					us := int(payload[0])<<16 | int(payload[1])<<8 | int(payload[2])
					if us > 0 {
						f.Tempo = append(f.Tempo, TempoPoint{Tick: tick, BPM: 60e6 / float64(us)})
					}
				}
			case 0x2F:
				return t, nil
			}
		case status == 0xF0 || status == 0xF7:
			length, n, err := ReadVLQ(b[pos:])
			if errors.Is(err, ErrVLQTooLong) {
				return t, err
			}
			if err != nil {
				return t, nil
			}
			pos += n + int(length)
		case status >= 0xF0:
			pos += systemSize(status)
		default:
			running = status
			size := channelSize(status)
			if pos+size > len(b) {
				return t, nil
			}
			ch := status & 0x0F
			switch status & 0xF0 {
			case 0x80:
				t.Events = append(t.Events, Event{Tick: tick, Kind: NoteOff, Channel: ch, Pitch: b[pos], Velocity: b[pos+1]})
			case 0x90:
				kind := NoteOn
				if b[pos+1] == 0 {
					kind = NoteOff
				}
				t.Events = append(t.Events, Event{Tick: tick, Kind: kind, Channel: ch, Pitch: b[pos], Velocity: b[pos+1]})
			}
			pos += size
		}
	}
	return t, nil
}

// channelSize returns the number of data bytes of a channel message.
func channelSize(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 1
	default:
		return 2
	}
}

func systemSize(status byte) int {
	switch status {
	case 0xF2:
		return 2
	case 0xF1, 0xF3:
		return 1
	default:
		return 0
	}
}

// trackName returns the name up to the first NUL, decoding it as Latin-1 if
// it is not valid UTF-8.
func trackName(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if utf8.Valid(b) {
		return string(b)
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}
	return string(s)
}

// ReadFile decodes a Standard MIDI File from r.
func ReadFile(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("midifile: %w", err)
	}
	return Decode(data)
}
