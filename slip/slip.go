// Package slip implements SLIP framing (RFC 1055) for carrying OSC packets
// over byte streams such as TCP connections and serial lines.
//
// A frame is the payload bytes with every END and ESC byte escaped,
// terminated by a single END byte. The decoder is incremental: feed it
// chunks of any size, in any alignment, and it returns the frames they
// complete.
package slip

import (
	"errors"
	"fmt"
)

// Framing bytes, per RFC 1055.
const (
	End    byte = 0xC0
	Esc    byte = 0xDB
	EscEnd byte = 0xDC
	EscEsc byte = 0xDD
)

// ErrInvalidEscape reports an ESC byte followed by anything other than
// ESC_END or ESC_ESC. The frame it occurred in is dropped.
var ErrInvalidEscape = errors.New("slip: invalid escape sequence")

// Encode returns frame as a SLIP frame, escaped and END-terminated.
func Encode(frame []byte) []byte {
	return AppendEncode(make([]byte, 0, len(frame)+2), frame)
}

// AppendEncode appends the SLIP encoding of frame to dst and returns the
// extended buffer.
func AppendEncode(dst, frame []byte) []byte {
	for _, b := range frame {
		switch b {
		case End:
			dst = append(dst, Esc, EscEnd)
		case Esc:
			dst = append(dst, Esc, EscEsc)
		default:
			dst = append(dst, b)
		}
	}
	return append(dst, End)
}

// Decoder is an incremental SLIP frame reader. The zero value is ready to
// use. Decoder state survives arbitrary chunk boundaries, including a chunk
// ending between an ESC byte and its follower.
type Decoder struct {
	pending []byte
	esc     bool
	drop    bool
}

// Decode consumes one chunk of stream bytes and returns the payloads of all
// frames completed by it. Empty frames, such as the gap between back-to-back
// END bytes, are discarded. An invalid escape sequence drops the frame it
// occurred in and decoding resumes at the next END byte; the error is
// returned alongside any frames the chunk completed.
func (d *Decoder) Decode(chunk []byte) ([][]byte, error) {
	var frames [][]byte
	var errs []error

	for _, b := range chunk {
		if d.drop {
			if b == End {
				d.drop = false
			}
			continue
		}

		if d.esc {
			d.esc = false
			switch b {
			case EscEnd:
				d.pending = append(d.pending, End)
			case EscEsc:
				d.pending = append(d.pending, Esc)
			case End:
				// The failed escape ran straight into a frame boundary,
				// which also resynchronizes the stream.
				errs = append(errs, fmt.Errorf("%w: ESC followed by END", ErrInvalidEscape))
				d.pending = d.pending[:0]
			default:
				errs = append(errs, fmt.Errorf("%w: ESC followed by %#02x", ErrInvalidEscape, b))
				d.pending = d.pending[:0]
				d.drop = true
			}
			continue
		}

		switch b {
		case End:
			if len(d.pending) > 0 {
				frames = append(frames, append([]byte(nil), d.pending...))
				d.pending = d.pending[:0]
			}
		case Esc:
			d.esc = true
		default:
			d.pending = append(d.pending, b)
		}
	}

	return frames, errors.Join(errs...)
}

// Pending returns the number of buffered bytes belonging to an unfinished
// frame.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Reset discards any partially received frame and escape state.
func (d *Decoder) Reset() {
	d.pending = d.pending[:0]
	d.esc = false
	d.drop = false
}
