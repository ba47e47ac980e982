package osc

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []interface{}
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return fmt.Errorf("Append: %w: %T", ErrUnsupportedArgument, a)
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Clear clears the OSC address and all arguments.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// Equals reports whether the given OSC Message m2 carries the same address
// and arguments as the current one.
func (m *Message) Equals(m2 *Message) bool {
	return reflect.DeepEqual(m, m2)
}

// Match returns true, if the OSC address pattern of the OSC Message matches the given
// address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	regexp, err := getRegEx(m.Address)
	if err != nil {
		return false
	}
	return regexp.MatchString(addr)
}

// TypeTags returns the type tag string, including the leading comma.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", fmt.Errorf("TypeTags: message is nil")
	}
	return GetTypeTag(m.Arguments)
}

// Unpack returns the message arguments shaped by opts: the bare value when
// UnpackSingleArg is set and exactly one argument is present, the argument
// slice otherwise.
func (m *Message) Unpack(opts Options) interface{} {
	if opts.UnpackSingleArg && len(m.Arguments) == 1 {
		return m.Arguments[0]
	}
	return m.Arguments
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	strBuf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(strBuf)
	strBuf.Reset()

	strBuf.WriteString(m.Address)
	if len(m.Arguments) == 0 {
		return strBuf.String()
	}

	strBuf.WriteByte(' ')
	strBuf.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case bool, int, int32, int64, uint, uint64, float32, float64, string, Symbol:
			fmt.Fprintf(strBuf, " %v", arg)

		case nil:
			strBuf.WriteString(" Nil")

		case Impulse:
			strBuf.WriteString(" Impulse")

		case []byte:
			strBuf.WriteString(" blob")

		case Char:
			fmt.Fprintf(strBuf, " %q", rune(arg))

		case Timetag:
			fmt.Fprintf(strBuf, " %d", arg.TimeTag())

		default:
			fmt.Fprintf(strBuf, " %v", arg)
		}
	}

	return strBuf.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (m *Message) MarshalBinary() (b []byte, err error) {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	if err = m.LightMarshalBinary(data); err != nil {
		return nil, err
	}
	return append(b, data.Bytes()...), nil
}

// LightMarshalBinary appends the wire form of the message to data. The
// address and type tag string are written first, then the argument payload.
func (m *Message) LightMarshalBinary(data *bytes.Buffer) error {
	b := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(b)
	b.Reset()

	// Collect the argument payload first, the type tag string has to be
	// written before it.
	for _, arg := range m.Arguments {
		if err := writeArgument(arg, b); err != nil {
			return err
		}
	}

	typetags, err := m.TypeTags()
	if err != nil {
		return err
	}

	if _, err := writePaddedString(m.Address, data); err != nil {
		return fmt.Errorf("LightMarshalBinary: address: %w", err)
	}
	if _, err := writePaddedString(typetags, data); err != nil {
		return fmt.Errorf("LightMarshalBinary: typetags: %w", err)
	}

	// Write the payload (OSC arguments) to the data buffer
	data.Write(b.Bytes())

	if data.Len() > MaxPacketSize {
		return fmt.Errorf("LightMarshalBinary: packet too large: %d", data.Len())
	}

	return nil
}

// writeArgument appends the payload bytes for a single argument. Zero-width
// tags contribute nothing here, they exist only in the type tag string.
func writeArgument(arg interface{}, b *bytes.Buffer) error {
	switch t := arg.(type) {
	default:
		return fmt.Errorf("writeArgument: %w: %T", ErrUnsupportedArgument, t)

	case bool, nil, Impulse:
		return nil

	case int32:
		writeUint32(uint32(t), b)

	case float32:
		writeUint32(math.Float32bits(t), b)

	case int64:
		writeUint64(uint64(t), b)

	case float64:
		writeUint64(math.Float64bits(t), b)

	// Unsized integers take the narrowest wire form their value fits,
	// matching the tag ToTypeTag inferred for them.
	case int:
		if t >= math.MinInt32 && t <= math.MaxInt32 {
			writeUint32(uint32(int32(t)), b)
		} else {
			writeUint64(uint64(t), b)
		}

	case uint:
		if t <= math.MaxInt32 {
			writeUint32(uint32(t), b)
		} else {
			return writeArgument(uint64(t), b)
		}

	case uint64:
		if t > math.MaxInt64 {
			return fmt.Errorf("writeArgument: %w: %d overflows int64", ErrInvalidArgument, t)
		}
		writeUint64(t, b)

	case string:
		if _, err := writePaddedString(t, b); err != nil {
			return err
		}

	case Symbol:
		if _, err := writePaddedString(string(t), b); err != nil {
			return err
		}

	case []byte:
		if _, err := writeBlob(t, b); err != nil {
			return err
		}

	case Char:
		if t < 0 || t > 0xff {
			return fmt.Errorf("writeArgument: %w: char %U does not fit in one byte", ErrInvalidArgument, rune(t))
		}
		writeUint32(uint32(t), b)

	case MIDI:
		b.Write([]byte{t.Port, t.Status, t.Data1, t.Data2})

	case RGBA:
		if t.A < 0 || t.A > 1 {
			return fmt.Errorf("writeArgument: %w: alpha %v outside [0, 1]", ErrInvalidArgument, t.A)
		}
		b.Write([]byte{t.R, t.G, t.B, byte(math.Round(t.A * 255))})

	case Timetag:
		writeUint64(uint64(t), b)

	case Argument:
		return writeTaggedArgument(t, b)
	}
	return nil
}

// writeTaggedArgument encodes an explicit Argument. Known tags require a
// value of the matching Go type. Unknown tags must carry a nil value and
// contribute only their tag byte.
func writeTaggedArgument(a Argument, b *bytes.Buffer) error {
	if a.Tag == 0 {
		return writeArgument(a.Value, b)
	}
	if !a.Tag.known() {
		if a.Value != nil {
			return fmt.Errorf("writeArgument: %w: tag %q with value %T", ErrUnsupportedArgument, byte(a.Tag), a.Value)
		}
		return nil
	}
	if a.Tag.zeroWidth() {
		return nil
	}
	if ToTypeTag(a.Value) != a.Tag {
		return fmt.Errorf("writeArgument: %w: tag %q with value %T", ErrInvalidArgument, byte(a.Tag), a.Value)
	}
	return writeArgument(a.Value, b)
}

// NewMessageFromData returns a new message created from the parsed data.
func NewMessageFromData(data []byte) (msg *Message, err error) {
	msg = &Message{}
	if err = msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface using
// DefaultOptions.
func (m *Message) UnmarshalBinary(data []byte) error {
	r := &reader{data: data}
	return m.unmarshal(r, DefaultOptions())
}

func (m *Message) unmarshal(r *reader, opts Options) error {
	addr, err := r.readPaddedString()
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}

	if (len(addr) == 0 || addr[0] != '/') && opts.Mode != Lenient {
		return fmt.Errorf("UnmarshalBinary: %w: %q", ErrInvalidAddress, addr)
	}

	m.Address = addr
	if err = m.readArguments(r, opts); err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}

	return nil
}

// readArguments decodes the type tag string and the argument payload behind
// it. Messages without a type tag section decode to zero arguments.
func (m *Message) readArguments(r *reader, opts Options) error {
	if r.len() == 0 {
		return nil
	}

	typetags, err := r.readPaddedString()
	if err != nil {
		return fmt.Errorf("readArguments: %w", err)
	}

	if len(typetags) == 0 {
		return nil
	}

	// Some legacy senders omit the leading comma. Strict mode rejects them.
	if typetags[0] == ',' {
		typetags = typetags[1:]
	} else if opts.Mode != Lenient {
		return fmt.Errorf("readArguments: %w: missing comma in %q", ErrInvalidTypeTag, typetags)
	}

	if len(typetags) == 0 {
		return nil
	}

	m.Arguments = make([]interface{}, 0, len(typetags))

	for _, c := range []byte(typetags) {
		tag := TypeTag(c)
		val, err := readArgument(r, tag, opts)
		if err != nil {
			return fmt.Errorf("readArguments: %w", err)
		}

		switch {
		case opts.Metadata:
			m.Arguments = append(m.Arguments, Argument{Tag: tag, Value: val})
		case tag.known():
			m.Arguments = append(m.Arguments, val)
		default:
			// Lenient decode of an unknown tag: keep the tag so the
			// message round-trips byte for byte.
			m.Arguments = append(m.Arguments, Argument{Tag: tag})
		}
	}

	return nil
}

// readArgument decodes the payload for one type tag.
func readArgument(r *reader, tag TypeTag, opts Options) (interface{}, error) {
	switch tag {
	default:
		if opts.Mode != Lenient {
			return nil, fmt.Errorf("readArgument: %w: %q", ErrInvalidTypeTag, byte(tag))
		}
		return nil, nil

	case TypeInt32:
		u, err := r.readUint32()
		return int32(u), err

	case TypeInt64:
		u, err := r.readUint64()
		return int64(u), err

	case TypeFloat32:
		u, err := r.readUint32()
		return math.Float32frombits(u), err

	case TypeFloat64:
		u, err := r.readUint64()
		return math.Float64frombits(u), err

	case TypeString:
		return r.readPaddedString()

	case TypeSymbol:
		s, err := r.readPaddedString()
		return Symbol(s), err

	case TypeBlob:
		return r.readBlob()

	case TypeChar:
		u, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		if u > 0xff {
			return nil, fmt.Errorf("readArgument: %w: char value %#x out of range", ErrInvalidArgument, u)
		}
		return Char(u), nil

	case TypeMIDI:
		b, err := r.next(bit32Size)
		if err != nil {
			return nil, err
		}
		return MIDI{Port: b[0], Status: b[1], Data1: b[2], Data2: b[3]}, nil

	case TypeRGBA:
		b, err := r.next(bit32Size)
		if err != nil {
			return nil, err
		}
		return RGBA{R: b[0], G: b[1], B: b[2], A: float64(b[3]) / 255}, nil

	case TypeTimeTag:
		u, err := r.readUint64()
		return Timetag(u), err

	case TypeTrue:
		return true, nil

	case TypeFalse:
		return false, nil

	case TypeNil:
		return nil, nil

	case TypeImpulse:
		return Impulse{}, nil
	}
}
