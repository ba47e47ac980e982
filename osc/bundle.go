package osc

import (
	"bytes"
	"fmt"
	"time"
)

const bundleTagString = "#bundle"

// bundleMarker is the padded form of the marker that opens every bundle on
// the wire.
var bundleMarker = [...]byte{'#', 'b', 'u', 'n', 'd', 'l', 'e', 0}

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns an OSC Bundle set to dispatch immediately.
func NewBundle(elems ...Packet) *Bundle {
	return &Bundle{Timetag: Immediately, Elements: elems}
}

// NewBundleWithTime returns an OSC Bundle with a time tag for the given time.
func NewBundleWithTime(t time.Time, elems ...Packet) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(t), Elements: elems}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return fmt.Errorf("Append: %w: only Bundle and Message are supported", ErrInvalidPacket)

	case *Bundle, *Message:
		b.Elements = append(b.Elements, t)
	}

	return nil
}

// String implements the fmt.Stringer interface.
func (b *Bundle) String() string {
	if b == nil {
		return ""
	}

	strBuf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(strBuf)
	strBuf.Reset()

	fmt.Fprintf(strBuf, "%s %d", bundleTagString, b.Timetag.TimeTag())
	for _, elem := range b.Elements {
		fmt.Fprintf(strBuf, " {%v}", elem)
	}

	return strBuf.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b *Bundle) MarshalBinary() (bb []byte, err error) {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	if err = b.LightMarshalBinary(data); err != nil {
		return nil, err
	}
	return append(bb, data.Bytes()...), nil
}

// LightMarshalBinary appends the wire form of the bundle to data: the
// "#bundle" marker, the time tag, then a length-prefixed block per element.
func (b *Bundle) LightMarshalBinary(data *bytes.Buffer) error {
	if _, err := writePaddedString(bundleTagString, data); err != nil {
		return err
	}

	// Add the time tag
	if err := b.Timetag.LightMarshalBinary(data); err != nil {
		return err
	}

	// Process all bundle elements
	for _, elem := range b.Elements {
		bb, err := elem.MarshalBinary()
		if err != nil {
			return err
		}

		// Write the size of the element
		writeUint32(uint32(len(bb)), data)

		// Append the element
		data.Write(bb)
	}

	return nil
}

// NewBundleFromData returns a new OSC bundle created from the parsed data.
func NewBundleFromData(data []byte) (b *Bundle, err error) {
	b = &Bundle{}
	if err = b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface using
// DefaultOptions.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	if len(data)%bit32Size != 0 {
		return fmt.Errorf("UnmarshalBinary: %w: length %d is not 32-bit aligned", ErrInvalidPacket, len(data))
	}

	r := &reader{data: data}
	return b.unmarshal(r, DefaultOptions(), 0)
}

func (b *Bundle) unmarshal(r *reader, opts Options, depth int) error {
	if depth >= opts.maxDepth() {
		return fmt.Errorf("UnmarshalBinary: %w: depth %d", ErrBundleTooDeep, depth)
	}

	// Read the '#bundle' OSC string
	startTag, err := r.readPaddedString()
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}
	if startTag != bundleTagString {
		return fmt.Errorf("UnmarshalBinary: %w: %q", ErrInvalidBundleMarker, startTag)
	}

	// Read the timetag
	tt, err := r.readUint64()
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: timetag: %w", err)
	}
	b.Timetag = Timetag(tt)

	// Read elements until the end of the buffer
	for r.len() > 0 {
		length, err := r.readUint32()
		if err != nil {
			return fmt.Errorf("UnmarshalBinary: element length: %w", err)
		}
		if int32(length) < 0 {
			return fmt.Errorf("UnmarshalBinary: %w: element length %d", ErrInvalidPacket, int32(length))
		}

		elem, err := r.next(int(length))
		if err != nil {
			return fmt.Errorf("UnmarshalBinary: element: %w", err)
		}

		p, err := parsePacket(&reader{data: elem, mode: opts.Mode}, opts, depth+1)
		if err != nil {
			return err
		}
		b.Elements = append(b.Elements, p)
	}

	return nil
}
