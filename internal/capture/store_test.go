package capture

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dougfinl/osckit/osc"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "capture.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustRaw(t *testing.T, p osc.Packet) []byte {
	t.Helper()
	data, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	return data
}

func TestBeginSession(t *testing.T) {
	s := newTestStore(t)

	id, err := s.BeginSession("rehearsal")
	if err != nil {
		t.Fatalf("BeginSession: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("session ID %q is not a UUID: %v", id, err)
	}

	sessions, err := s.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].ID != id || sessions[0].Label != "rehearsal" {
		t.Fatalf("got session %+v, want ID %q label \"rehearsal\"", sessions[0], id)
	}
	if sessions[0].StartedAt.IsZero() {
		t.Fatal("StartedAt should not be zero")
	}
}

func TestRecordPacket_Message(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.BeginSession("")
	if err != nil {
		t.Fatal(err)
	}

	msg := &osc.Message{Address: "/mixer/fader/1", Arguments: []interface{}{float32(0.5)}}
	raw := mustRaw(t, msg)

	id, err := s.RecordPacket(sess, msg, raw, "10.0.0.2:9000")
	if err != nil {
		t.Fatalf("RecordPacket: %v", err)
	}
	if id <= 0 {
		t.Fatalf("got row ID %d, want > 0", id)
	}

	records, err := s.BySession(sess, 0)
	if err != nil {
		t.Fatalf("BySession: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Kind != "message" {
		t.Errorf("Kind = %q, want message", r.Kind)
	}
	if r.Address != "/mixer/fader/1" {
		t.Errorf("Address = %q, want /mixer/fader/1", r.Address)
	}
	if r.TypeTags != ",f" {
		t.Errorf("TypeTags = %q, want \",f\"", r.TypeTags)
	}
	if r.Peer != "10.0.0.2:9000" {
		t.Errorf("Peer = %q, want 10.0.0.2:9000", r.Peer)
	}
	if r.Display == "" {
		t.Error("Display should not be empty")
	}
	if time.Since(r.ReceivedAt) > time.Minute {
		t.Errorf("ReceivedAt %v is stale", r.ReceivedAt)
	}
}

func TestRecordPacket_Bundle(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.BeginSession("")
	if err != nil {
		t.Fatal(err)
	}

	bundle := osc.NewBundle(&osc.Message{Address: "/a"})
	raw := mustRaw(t, bundle)

	if _, err := s.RecordPacket(sess, bundle, raw, ""); err != nil {
		t.Fatalf("RecordPacket: %v", err)
	}

	records, err := s.BySession(sess, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Kind != "bundle" {
		t.Errorf("Kind = %q, want bundle", records[0].Kind)
	}
	if records[0].Address != "" {
		t.Errorf("Address = %q, want empty for a bundle", records[0].Address)
	}
}

// TestRecordPacket_RawRoundTrip verifies the stored bytes come back exactly
// as they went in and still decode to the same packet.
func TestRecordPacket_RawRoundTrip(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.BeginSession("")
	if err != nil {
		t.Fatal(err)
	}

	msg := &osc.Message{
		Address: "/synth/note",
		Arguments: []interface{}{
			int32(60), float32(0.75), "pluck", []byte{0xde, 0xad, 0xbe, 0xef},
		},
	}
	raw := mustRaw(t, msg)

	if _, err := s.RecordPacket(sess, msg, raw, ""); err != nil {
		t.Fatal(err)
	}

	records, err := s.BySession(sess, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if !bytes.Equal(records[0].Raw, raw) {
		t.Fatalf("stored raw bytes differ:\n got  %v\n want %v", records[0].Raw, raw)
	}

	decoded, err := osc.ParsePacket(records[0].Raw)
	if err != nil {
		t.Fatalf("ParsePacket on stored bytes: %v", err)
	}
	if !reflect.DeepEqual(decoded, msg) {
		t.Fatalf("decoded packet differs:\n got  %#v\n want %#v", decoded, msg)
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.BeginSession("")
	if err != nil {
		t.Fatal(err)
	}

	addrs := []string{"/one", "/two", "/three"}
	for _, addr := range addrs {
		msg := &osc.Message{Address: addr}
		if _, err := s.RecordPacket(sess, msg, mustRaw(t, msg), ""); err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Address != "/three" || records[1].Address != "/two" {
		t.Errorf("got order [%s %s], want [/three /two]", records[0].Address, records[1].Address)
	}
}

func TestBySession_FiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	sessA, _ := s.BeginSession("a")
	sessB, _ := s.BeginSession("b")

	for _, rec := range []struct {
		sess string
		addr string
	}{
		{sessA, "/a/1"},
		{sessB, "/b/1"},
		{sessA, "/a/2"},
	} {
		msg := &osc.Message{Address: rec.addr}
		if _, err := s.RecordPacket(rec.sess, msg, mustRaw(t, msg), ""); err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.BySession(sessA, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records for session a, want 2", len(records))
	}
	if records[0].Address != "/a/1" || records[1].Address != "/a/2" {
		t.Errorf("got order [%s %s], want [/a/1 /a/2]", records[0].Address, records[1].Address)
	}
	for _, r := range records {
		if r.Session != sessA {
			t.Errorf("record %d belongs to session %q, want %q", r.ID, r.Session, sessA)
		}
	}
}

func TestCountPackets(t *testing.T) {
	s := newTestStore(t)
	if n := s.CountPackets(); n != 0 {
		t.Fatalf("empty store has %d packets, want 0", n)
	}

	sess, _ := s.BeginSession("")
	msg := &osc.Message{Address: "/tick"}
	raw := mustRaw(t, msg)
	for i := 0; i < 3; i++ {
		if _, err := s.RecordPacket(sess, msg, raw, ""); err != nil {
			t.Fatal(err)
		}
	}
	if n := s.CountPackets(); n != 3 {
		t.Fatalf("got %d packets, want 3", n)
	}
}

func TestOpenReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "capture.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := s.BeginSession("persisted")
	if err != nil {
		t.Fatal(err)
	}
	msg := &osc.Message{Address: "/kept"}
	if _, err := s.RecordPacket(sess, msg, mustRaw(t, msg), ""); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	records, err := s2.BySession(sess, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Address != "/kept" {
		t.Fatalf("reopened store lost data: %+v", records)
	}
}
