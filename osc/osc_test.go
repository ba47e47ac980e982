package osc

import "encoding/binary"

// testCase drives the marshal, unmarshal and ParsePacket tests from one
// table: obj and raw are two forms of the same packet.
type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

// cat assembles a packet buffer from parts.
func cat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

// pstr returns s in OSC string form: NUL terminated and padded to 4 bytes.
func pstr(s string) []byte {
	b := append([]byte(s), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func b32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func b64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

const tableTimetag = Timetag(0x1122334455667788)

var messageTestCases = []testCase{
	{
		name: "no_args",
		obj:  &Message{Address: "/ping"},
		raw:  cat(pstr("/ping"), pstr(",")),
	},
	{
		name: "int32_arg",
		obj:  &Message{Address: "/foo", Arguments: []interface{}{int32(42)}},
		raw:  cat(pstr("/foo"), pstr(",i"), b32(42)),
	},
	{
		name: "all_basic_tags",
		obj: &Message{Address: "/address", Arguments: []interface{}{
			int32(123),
			int64(456),
			float32(1.5),
			float64(2.25),
			"hello",
			[]byte{1, 2, 3},
			tableTimetag,
			true,
			false,
			nil,
		}},
		raw: cat(
			pstr("/address"),
			pstr(",ihfdsbtTFN"),
			b32(123),
			b64(456),
			b32(0x3fc00000),
			b64(0x4002000000000000),
			pstr("hello"),
			b32(3), []byte{1, 2, 3, 0},
			b64(uint64(tableTimetag)),
		),
	},
	{
		name: "extended_tags",
		obj: &Message{Address: "/ext", Arguments: []interface{}{
			Symbol("sym"),
			Char('A'),
			MIDI{Port: 1, Status: 0x90, Data1: 60, Data2: 127},
			RGBA{R: 255, G: 128, B: 0, A: 1},
			Impulse{},
		}},
		raw: cat(
			pstr("/ext"),
			pstr(",ScmrI"),
			pstr("sym"),
			b32('A'),
			[]byte{1, 0x90, 60, 127},
			[]byte{255, 128, 0, 255},
		),
	},
	{
		name: "empty_blob",
		obj:  &Message{Address: "/blob", Arguments: []interface{}{[]byte{}}},
		raw:  cat(pstr("/blob"), pstr(",b"), b32(0)),
	},
	{
		name: "deep_address",
		obj: &Message{
			Address:   "/composition/layers/1/clips/1/transport/position",
			Arguments: []interface{}{float32(0.5)},
		},
		raw: cat(
			pstr("/composition/layers/1/clips/1/transport/position"),
			pstr(",f"),
			b32(0x3f000000),
		),
	},
}

var bundleTestCases = []testCase{
	{
		name: "empty_immediate",
		obj:  &Bundle{Timetag: Immediately},
		raw:  cat(pstr("#bundle"), b64(1)),
	},
	{
		name: "one_message",
		obj: &Bundle{Timetag: tableTimetag, Elements: []Packet{
			&Message{Address: "/foo", Arguments: []interface{}{int32(42)}},
		}},
		raw: cat(
			pstr("#bundle"), b64(uint64(tableTimetag)),
			b32(16), pstr("/foo"), pstr(",i"), b32(42),
		),
	},
	{
		name: "nested",
		obj: &Bundle{Timetag: Immediately, Elements: []Packet{
			&Message{Address: "/a"},
			&Bundle{Timetag: tableTimetag, Elements: []Packet{
				&Message{Address: "/b", Arguments: []interface{}{int32(7)}},
			}},
		}},
		raw: cat(
			pstr("#bundle"), b64(1),
			b32(8), pstr("/a"), pstr(","),
			b32(32), pstr("#bundle"), b64(uint64(tableTimetag)),
			b32(12), pstr("/b"), pstr(",i"), b32(7),
		),
	},
	{
		name: "interleaved_elements",
		obj: &Bundle{Timetag: Immediately, Elements: []Packet{
			&Message{Address: "/first"},
			&Bundle{Timetag: tableTimetag},
			&Message{Address: "/last"},
		}},
		raw: cat(
			pstr("#bundle"), b64(1),
			b32(12), pstr("/first"), pstr(","),
			b32(16), pstr("#bundle"), b64(uint64(tableTimetag)),
			b32(12), pstr("/last"), pstr(","),
		),
	},
}
