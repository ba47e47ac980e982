package osc

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestReadPaddedString(t *testing.T) {
	for _, tt := range []struct {
		buf     []byte    // buffer
		mode    ParseMode //
		wantOff int       // bytes consumed
		want    string    // resulting string
		err     error
	}{
		{[]byte{'t', 'e', 's', 't', 's', 't', 'r', 'i', 'n', 'g', 0, 0}, Strict, 12, "teststring", nil},
		{[]byte{'t', 'e', 's', 't', 'e', 'r', 's', 0}, Strict, 8, "testers", nil},
		{[]byte{'t', 'e', 's', 't', 's', 0, 0, 0}, Strict, 8, "tests", nil},
		{[]byte{'t', 'e', 's', 0, 0, 0, 0, 0}, Strict, 4, "tes", nil}, // OSC uses null terminated strings
		{[]byte{'t', 'e', 's', 't'}, Strict, 0, "", ErrTruncated},     // if there is no null byte at the end, it doesn't work.
		{[]byte{'h', 'i', 0}, Strict, 0, "", ErrTruncated},            // padding missing
		{[]byte{'h', 'i', 0}, Lenient, 3, "hi", nil},                  // lenient forgives missing padding
	} {
		r := &reader{data: tt.buf, mode: tt.mode}
		got, err := r.readPaddedString()
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: Error reading padded string: %v, want %v", tt.want, err, tt.err)
		}
		if err != nil {
			continue
		}
		if r.off != tt.wantOff {
			t.Errorf("%s: Bytes consumed don't match; got = %d, want = %d", tt.want, r.off, tt.wantOff)
		}
		if got != tt.want {
			t.Errorf("%s: Strings don't match; got = %b, want = %b", tt.want, []byte(got), []byte(tt.want))
		}
	}
}

func TestReadBlob(t *testing.T) {
	for _, tt := range []struct {
		name    string
		buf     []byte
		mode    ParseMode
		wantOff int
		want    []byte
		err     error
	}{
		{"aligned", cat(b32(4), []byte{1, 2, 3, 4}), Strict, 8, []byte{1, 2, 3, 4}, nil},
		{"padded", cat(b32(3), []byte{1, 2, 3, 0}), Strict, 8, []byte{1, 2, 3}, nil},
		{"empty", b32(0), Strict, 4, []byte{}, nil},
		{"negative_length", b32(0x80000000), Strict, 0, nil, ErrInvalidArgument},
		{"length_past_end", cat(b32(16), []byte{1, 2}), Strict, 0, nil, ErrTruncated},
		{"missing_padding", cat(b32(3), []byte{1, 2, 3}), Strict, 0, nil, ErrTruncated},
		{"missing_padding_lenient", cat(b32(3), []byte{1, 2, 3}), Lenient, 7, []byte{1, 2, 3}, nil},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r := &reader{data: tt.buf, mode: tt.mode}
			got, err := r.readBlob()
			if !errors.Is(err, tt.err) {
				t.Fatalf("readBlob() error = %v, want %v", err, tt.err)
			}
			if err != nil {
				return
			}
			if r.off != tt.wantOff {
				t.Errorf("readBlob() consumed %d bytes, want %d", r.off, tt.wantOff)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("readBlob() got = %v, want %v", got, tt.want)
			}
		})
	}
}

// readBlob copies out of the packet buffer, so the caller may recycle it.
func TestReadBlobCopies(t *testing.T) {
	buf := cat(b32(3), []byte{1, 2, 3, 0})
	r := &reader{data: buf}
	blob, err := r.readBlob()
	if err != nil {
		t.Fatalf("readBlob() error = %v", err)
	}

	buf[4] = 99
	if !reflect.DeepEqual(blob, []byte{1, 2, 3}) {
		t.Errorf("readBlob() result aliases the packet buffer: %v", blob)
	}
}

func TestWritePaddedString(t *testing.T) {
	bytesBuffer := new(bytes.Buffer)
	testString := "testString"
	expectedNumberOfWrittenBytes := len(testString) + 1 + padBytesNeeded(len(testString)+1)

	n, err := writePaddedString(testString, bytesBuffer)
	if err != nil {
		t.Fatalf("writePaddedString() error = %v", err)
	}
	if n != expectedNumberOfWrittenBytes {
		t.Errorf("Expected number of written bytes should be \"%d\" and is \"%d\"", expectedNumberOfWrittenBytes, n)
	}
	if bytesBuffer.Len() != n {
		t.Errorf("Buffer holds %d bytes, want %d", bytesBuffer.Len(), n)
	}

	if _, err := writePaddedString("with\x00nul", bytesBuffer); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("writePaddedString() error = %v, want ErrInvalidArgument", err)
	}
}

func TestWriteBlob(t *testing.T) {
	buf := new(bytes.Buffer)
	n, err := writeBlob([]byte{1, 2, 3}, buf)
	if err != nil {
		t.Fatalf("writeBlob() error = %v", err)
	}
	if n != 8 || buf.Len() != 8 {
		t.Errorf("writeBlob() wrote %d bytes (buffer %d), want 8", n, buf.Len())
	}
	if want := cat(b32(3), []byte{1, 2, 3, 0}); !reflect.DeepEqual(buf.Bytes(), want) {
		t.Errorf("writeBlob() got = %v, want %v", buf.Bytes(), want)
	}
}

func TestPadBytesNeeded(t *testing.T) {
	var n int
	n = padBytesNeeded(4)
	if n != 0 {
		t.Errorf("Number of pad bytes should be 0 and is: %d", n)
	}

	n = padBytesNeeded(3)
	if n != 1 {
		t.Errorf("Number of pad bytes should be 1 and is: %d", n)
	}

	n = padBytesNeeded(1)
	if n != 3 {
		t.Errorf("Number of pad bytes should be 3 and is: %d", n)
	}

	n = padBytesNeeded(0)
	if n != 0 {
		t.Errorf("Number of pad bytes should be 0 and is: %d", n)
	}

	n = padBytesNeeded(32)
	if n != 0 {
		t.Errorf("Number of pad bytes should be 0 and is: %d", n)
	}

	n = padBytesNeeded(63)
	if n != 1 {
		t.Errorf("Number of pad bytes should be 1 and is: %d", n)
	}

	n = padBytesNeeded(10)
	if n != 2 {
		t.Errorf("Number of pad bytes should be 2 and is: %d", n)
	}
}
