package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

const secondsFrom1900To1970 = 2208988800

// Immediately is the special time tag value of one, instructing the
// receiver to act on a bundle as soon as it arrives.
const Immediately Timetag = 1

// Timetag represents an OSC Time Tag.
// An OSC Time Tag is defined as follows:
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second to a precision of about
// 200 picoseconds. This is the representation used by Internet NTP timestamps.
type Timetag uint64

// NewTimetagFromTime returns a new OSC time tag object from a time.Time.
func NewTimetagFromTime(timeStamp time.Time) Timetag {
	return Timetag(timeToTimetag(timeStamp))
}

// NewImmediateTimetag returns the special "immediately" time tag.
func NewImmediateTimetag() Timetag {
	return Immediately
}

// NewTimetagFromMillis returns a time tag for the given number of
// milliseconds since the Unix epoch. Sub-millisecond fractions are kept.
func NewTimetagFromMillis(ms float64) Timetag {
	secs := math.Floor(ms / 1000)
	frac := uint64((ms/1000 - secs) * (1 << 32))
	if frac > 0xffffffff {
		frac = 0xffffffff
	}
	return Timetag(uint64(secondsFrom1900To1970+int64(secs))<<32 | frac)
}

// NewTimetagAfter returns a time tag d away from the given reference time.
func NewTimetagAfter(d time.Duration, from time.Time) Timetag {
	return NewTimetagFromTime(from.Add(d))
}

// Time returns the time. The immediate tag reports the current time.
func (t Timetag) Time() time.Time {
	if t.IsImmediate() {
		return time.Now()
	}
	return timetagToTime(t)
}

// Millis returns the time tag as milliseconds since the Unix epoch. The
// immediate tag reports the current time.
func (t Timetag) Millis() float64 {
	if t.IsImmediate() {
		return float64(time.Now().UnixNano()) / 1e6
	}
	secs := float64(int64(t>>32) - secondsFrom1900To1970)
	frac := float64(uint32(t)) / (1 << 32)
	return (secs + frac) * 1000
}

// IsImmediate reports whether the tag is the special "immediately" value.
func (t Timetag) IsImmediate() bool {
	return t == Immediately
}

// FractionalSecond returns the last 32 bits of the OSC time tag. Specifies the
// fractional part of a second.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// SecondsSinceEpoch returns the first 32 bits (the number of seconds since the
// midnight 1900) from the OSC time tag.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// TimeTag returns the time tag value
func (t Timetag) TimeTag() uint64 {
	return uint64(t)
}

// MarshalBinary converts the OSC time tag to a byte array.
func (t Timetag) MarshalBinary() (b []byte, err error) {
	b = make([]byte, bit64Size)
	binary.BigEndian.PutUint64(b, uint64(t))
	return
}

// LightMarshalBinary appends the time tag to data.
func (t Timetag) LightMarshalBinary(data *bytes.Buffer) error {
	writeUint64(uint64(t), data)
	return nil
}

// UnmarshalBinary reads an 8 byte big-endian time tag.
func (t *Timetag) UnmarshalBinary(data []byte) error {
	if len(data) < bit64Size {
		return fmt.Errorf("Timetag.UnmarshalBinary: %w", ErrTruncated)
	}
	*t = Timetag(binary.BigEndian.Uint64(data))
	return nil
}

// SetTime sets the value of the OSC time tag.
func (t *Timetag) SetTime(time time.Time) {
	*t = Timetag(timeToTimetag(time))
}

// ExpiresIn calculates the time until the current time is the same as the
// value of the time tag. It returns zero if the value of the time tag is in
// the past, or if it is the immediate tag.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= 1 {
		return 0
	}

	d := timetagToTime(t).Sub(time.Now())
	if d <= 0 {
		return 0
	}

	return d
}

// timeToTimetag converts the given time to an OSC time tag.
//
// The fractional field holds the sub-second part scaled to 1/2^32 second
// units, per the NTP fixed point representation.
func timeToTimetag(t time.Time) uint64 {
	secs := uint64(secondsFrom1900To1970 + t.Unix())
	frac := uint64(t.Nanosecond()) * (1 << 32) / 1000000000
	return secs<<32 | frac
}

// timetagToTime converts the given timetag to a time object.
func timetagToTime(timetag Timetag) time.Time {
	secs := int64(timetag>>32) - secondsFrom1900To1970
	nsec := int64(uint64(uint32(timetag)) * 1000000000 >> 32)
	return time.Unix(secs, nsec)
}
