package osc

import (
	"testing"
	"time"
)

func TestDispatcher_AddMethodFunc(t *testing.T) {
	type args struct {
		addr   string
		method MethodFunc
	}
	tests := []struct {
		name    string
		methods map[string]Method
		args    args
		wantErr bool
	}{
		{"valid", nil, args{"/address/test", func(_ *Message) {}}, false},
		{"invalid", nil, args{"/address*/test", func(_ *Message) {}}, true},
		{"already_exists", map[string]Method{"/address/test": MethodFunc(func(_ *Message) {})}, args{"/address/test", func(_ *Message) {}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Dispatcher{
				methods: tt.methods,
			}
			if err := d.AddMethodFunc(tt.args.addr, tt.args.method); (err != nil) != tt.wantErr {
				t.Errorf("AddMethodFunc() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

var testDispatcher = &Dispatcher{
	methods: map[string]Method{
		"/osc": func() MethodFunc {
			return func(msg *Message) {
				msg.Arguments[0] = msg.Arguments[0].(int) + 1
			}
		}(),
		"/os": func() MethodFunc {
			return func(msg *Message) {
				msg.Arguments[0] = msg.Arguments[0].(int) + 2
			}
		}(),
		"/osv": func() MethodFunc {
			return func(msg *Message) {
				msg.Arguments[0] = msg.Arguments[0].(int) + 4
			}
		}(),
		"/osabc": func() MethodFunc {
			return func(msg *Message) {
				msg.Arguments[0] = msg.Arguments[0].(int) + 8
			}
		}(),

		"/osc123": func() MethodFunc {
			return func(msg *Message) {
				msg.Arguments[0] = msg.Arguments[0].(int) + 16
			}
		}(),
		"/osc1b3": func() MethodFunc {
			return func(msg *Message) {
				msg.Arguments[0] = msg.Arguments[0].(int) + 32
			}
		}(),
		"/oscz": func() MethodFunc {
			return func(msg *Message) {
				msg.Arguments[0] = msg.Arguments[0].(int) + 64
			}
		}(),
		"/osc/z": func() MethodFunc {
			return func(msg *Message) {
				msg.Arguments[0] = msg.Arguments[0].(int) + 128
			}
		}(),
		"/osc/23f": func() MethodFunc {
			return func(msg *Message) {
				msg.Arguments[0] = msg.Arguments[0].(int) + 256
			}
		}(),
	},
}

func TestDispatcher_Dispatch(t *testing.T) {
	tests := []struct {
		name   string
		packet Packet
		expect int
	}{
		{"single", NewMessage("/osc", 0), 1},
		{"c_or_not", NewMessage("/os{c,}", 0), 3},
		{"single_any", NewMessage("/os{?,}", 0), 7},
		{"single_must", NewMessage("/os{c,v}", 0), 5},
		{"match_in_part", NewMessage("/osc{?,}z", 0), 64},
		{"match_multiple_parts", NewMessage("/osc/?", 0), 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDispatcher.Dispatch(tt.packet)
			p := tt.packet.(*Message)
			if p.Arguments[0].(int) != tt.expect {
				t.Errorf("Dispatch() got = %v, expect %v", p.Arguments[0].(int), tt.expect)
			}
		})
	}
}

func TestDispatcher_DispatchBundle(t *testing.T) {
	done := make(chan *Message, 1)
	d := &Dispatcher{}
	if err := d.AddMethodFunc("/bundled", func(msg *Message) { done <- msg }); err != nil {
		t.Fatalf("AddMethodFunc() error = %v", err)
	}

	d.Dispatch(NewBundle(NewMessage("/bundled", int32(1))))

	select {
	case msg := <-done:
		if msg.Address != "/bundled" {
			t.Errorf("dispatched address = %q, want %q", msg.Address, "/bundled")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the bundle to dispatch")
	}
}

func TestDispatcher_Attach(t *testing.T) {
	var hits int
	d := &Dispatcher{}
	if err := d.AddMethodFunc("/hit", func(_ *Message) { hits++ }); err != nil {
		t.Fatalf("AddMethodFunc() error = %v", err)
	}

	port := &DatagramPort{}
	detach := d.Attach(port)

	raw, err := NewMessage("/hit").MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	port.Datagram(raw, Info{})
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}

	detach()
	port.Datagram(raw, Info{})
	if hits != 1 {
		t.Errorf("hits = %d after detach, want 1", hits)
	}
}
