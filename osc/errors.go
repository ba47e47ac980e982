package osc

import "errors"

// Sentinel errors returned by the codecs in this package. Failures wrap
// these with positional context, so match them with errors.Is.
var (
	// ErrTruncated reports a buffer that ends before a field it promises.
	ErrTruncated = errors.New("osc: truncated packet")

	// ErrInvalidTypeTag reports a malformed type tag string or a tag outside
	// the supported set.
	ErrInvalidTypeTag = errors.New("osc: invalid type tag")

	// ErrInvalidAddress reports a message address that does not begin with '/'.
	ErrInvalidAddress = errors.New("osc: invalid address")

	// ErrInvalidBundleMarker reports a bundle that does not begin with the
	// "#bundle" marker string.
	ErrInvalidBundleMarker = errors.New("osc: invalid bundle marker")

	// ErrInvalidPacket reports a buffer that is neither a message nor a bundle.
	ErrInvalidPacket = errors.New("osc: invalid packet")

	// ErrUnsupportedArgument reports an argument whose Go type has no OSC
	// representation.
	ErrUnsupportedArgument = errors.New("osc: unsupported argument type")

	// ErrInvalidArgument reports an argument value that cannot be encoded,
	// such as a Char above U+00FF or a string containing a NUL byte.
	ErrInvalidArgument = errors.New("osc: invalid argument")

	// ErrBundleTooDeep reports bundle nesting beyond Options.MaxBundleDepth.
	ErrBundleTooDeep = errors.New("osc: bundle nested too deeply")
)
