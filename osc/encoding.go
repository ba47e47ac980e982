package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

////
// De/Encoding functions
////

const (
	bit32Size = 4
	bit64Size = 8
)

var zeroPad [4]byte

// reader walks a packet buffer without copying it. All multi-byte reads are
// big-endian and all variable-length fields are padded to 4-byte boundaries.
type reader struct {
	data []byte
	off  int
	mode ParseMode
}

func (r *reader) len() int {
	return len(r.data) - r.off
}

// next returns the n bytes at the cursor and advances past them.
func (r *reader) next(n int) ([]byte, error) {
	if r.len() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.off, r.len())
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.next(bit32Size)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) readUint64() (uint64, error) {
	b, err := r.next(bit64Size)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// readPaddedString reads a NUL-terminated string and skips its padding. In
// lenient mode, padding that runs past the end of the buffer is forgiven.
func (r *reader) readPaddedString() (string, error) {
	pos := bytes.IndexByte(r.data[r.off:], 0)
	if pos == -1 {
		return "", fmt.Errorf("readPaddedString: %w: unterminated string at offset %d", ErrTruncated, r.off)
	}

	str := string(r.data[r.off : r.off+pos])

	n := pos + 1 + padBytesNeeded(pos+1)
	if r.len() < n {
		if r.mode != Lenient {
			return "", fmt.Errorf("readPaddedString: %w: missing string padding at offset %d", ErrTruncated, r.off)
		}
		n = r.len()
	}
	r.off += n

	return str, nil
}

// readBlob reads a length-prefixed blob and skips its padding. The returned
// slice is a copy, so the packet buffer may be reused by the caller.
func (r *reader) readBlob() ([]byte, error) {
	blobLen, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("readBlob: %w", err)
	}
	if blobLen > math.MaxInt32 {
		return nil, fmt.Errorf("readBlob: %w: blob length %d", ErrInvalidArgument, blobLen)
	}

	n := int(blobLen)
	if r.len() < n {
		return nil, fmt.Errorf("readBlob: %w: blob of %d bytes at offset %d", ErrTruncated, n, r.off)
	}
	blob := make([]byte, n)
	copy(blob, r.data[r.off:r.off+n])
	r.off += n

	pad := padBytesNeeded(n)
	if r.len() < pad {
		if r.mode != Lenient {
			return nil, fmt.Errorf("readBlob: %w: missing blob padding at offset %d", ErrTruncated, r.off)
		}
		pad = r.len()
	}
	r.off += pad

	return blob, nil
}

// writePaddedString writes str with its NUL terminator and padding bytes to
// buf. Strings containing NUL cannot be represented on the wire.
func writePaddedString(str string, buf *bytes.Buffer) (int, error) {
	if strings.IndexByte(str, 0) != -1 {
		return 0, fmt.Errorf("writePaddedString: %w: string contains NUL byte", ErrInvalidArgument)
	}

	buf.WriteString(str)
	buf.WriteByte(0)

	n := len(str) + 1
	pad := padBytesNeeded(n)
	buf.Write(zeroPad[:pad])

	return n + pad, nil
}

// writeBlob writes data as an OSC blob into buf. If the length of data isn't
// 32-bit aligned, padding bytes are added.
func writeBlob(data []byte, buf *bytes.Buffer) (int, error) {
	if len(data) > math.MaxInt32 {
		return 0, fmt.Errorf("writeBlob: %w: blob of %d bytes", ErrInvalidArgument, len(data))
	}

	writeUint32(uint32(len(data)), buf)
	buf.Write(data)

	pad := padBytesNeeded(len(data))
	buf.Write(zeroPad[:pad])

	return bit32Size + len(data) + pad, nil
}

func writeUint32(v uint32, buf *bytes.Buffer) {
	var b [bit32Size]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(v uint64, buf *bytes.Buffer) {
	var b [bit64Size]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
