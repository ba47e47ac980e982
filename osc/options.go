package osc

// ParseMode selects how strictly the decoder treats malformed input.
type ParseMode int

const (
	// Strict rejects any deviation from the OSC 1.0 encoding rules.
	Strict ParseMode = iota

	// Lenient tolerates a small set of real-world deviations: unknown type
	// tags are preserved as tag-only Arguments, addresses without a leading
	// '/' pass through unchanged, and missing trailing padding is accepted.
	// Everything else still fails exactly as in Strict mode.
	Lenient
)

func (m ParseMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// DefaultMaxBundleDepth bounds bundle recursion when Options.MaxBundleDepth
// is zero.
const DefaultMaxBundleDepth = 64

// Options controls decoding and argument exposure. The zero value decodes
// strictly and yields plain Go values, matching ParsePacket.
type Options struct {
	// Metadata wraps every decoded argument in an Argument carrying its wire
	// tag, preserving distinctions between tags that share a Go type, such
	// as 's' and 'S'.
	Metadata bool

	// UnpackSingleArg makes Message.Unpack return the bare value for
	// messages carrying exactly one argument.
	UnpackSingleArg bool

	// Mode selects strict or lenient parsing.
	Mode ParseMode

	// MaxBundleDepth bounds bundle recursion. Zero means
	// DefaultMaxBundleDepth.
	MaxBundleDepth int
}

// DefaultOptions returns the options ParsePacket decodes with.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) maxDepth() int {
	if o.MaxBundleDepth <= 0 {
		return DefaultMaxBundleDepth
	}
	return o.MaxBundleDepth
}
