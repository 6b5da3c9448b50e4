package livefeed

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"tripwallet/models"
	"tripwallet/syncer"
)

type recordingStore struct {
	mu  sync.Mutex
	ops []string
}

func (r *recordingStore) note(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func (r *recordingStore) has(op string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.ops {
		if o == op {
			return true
		}
	}
	return false
}

func (r *recordingStore) Subscribe(_ context.Context, src syncer.Source, _ func(syncer.Snapshot), _ func(error)) (func(), error) {
	r.note("subscribe:" + string(src.Mode))
	return func() {}, nil
}

func (r *recordingStore) CreateItem(_ context.Context, _ models.ItineraryItem) (string, error) {
	r.note("create")
	return "item1", nil
}

func (r *recordingStore) UpdateItem(_ context.Context, item models.ItineraryItem) error {
	r.note("update:" + item.ItemID)
	return nil
}

func (r *recordingStore) DeleteItem(_ context.Context, _ string, itemID string) error {
	r.note("delete:" + itemID)
	return nil
}

func (r *recordingStore) Publish(_ context.Context, _ string, _ []models.ItineraryItem) (string, error) {
	r.note("publish")
	return "shared123", nil
}

func newTestSession(t *testing.T) (*Session, *recordingStore) {
	t.Helper()
	rs := &recordingStore{}
	s := &Session{send: make(chan []byte, 16)}
	s.ctrl = syncer.New(rs, "u1", s.pushState)
	s.ctrl.Start(context.Background())
	t.Cleanup(s.ctrl.Stop)
	return s, rs
}

func decodePayload(t *testing.T, raw string) inboundPayload {
	t.Helper()
	var p inboundPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	return p
}

func nextFrame(t *testing.T, s *Session) syncer.State {
	t.Helper()
	select {
	case frame := <-s.send:
		var st syncer.State
		if err := json.Unmarshal(frame, &st); err != nil {
			t.Fatalf("frame does not decode: %v", err)
		}
		return st
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for state frame")
		return syncer.State{}
	}
}

func drain(s *Session) {
	for {
		select {
		case <-s.send:
		default:
			return
		}
	}
}

func TestAddActionReachesStore(t *testing.T) {
	s, rs := newTestSession(t)
	drain(s)

	p := decodePayload(t, `{"action":"add","item":{"type":"flight","departureDate":"2025-03-10"}}`)
	s.handleAction(context.Background(), p)

	if !rs.has("create") {
		t.Fatalf("expected a create, got %v", rs.ops)
	}
	st := nextFrame(t, s)
	if st.Notice != "Item added successfully!" {
		t.Fatalf("unexpected notice: %q", st.Notice)
	}
}

func TestViewSharedActionSwitchesMode(t *testing.T) {
	s, rs := newTestSession(t)
	drain(s)

	p := decodePayload(t, `{"action":"viewShared","sharedId":"abc"}`)
	s.handleAction(context.Background(), p)

	if !rs.has("subscribe:shared") {
		t.Fatalf("expected a shared subscription, got %v", rs.ops)
	}
	st := nextFrame(t, s)
	if st.Mode != syncer.ModeShared || st.SharedID != "abc" {
		t.Fatalf("expected shared view of abc, got mode=%s id=%s", st.Mode, st.SharedID)
	}
}

func TestDeleteNeedsConfirmAction(t *testing.T) {
	s, rs := newTestSession(t)
	drain(s)

	del := decodePayload(t, `{"action":"delete","item":{"id":"f1","type":"flight"}}`)
	s.handleAction(context.Background(), del)
	if rs.has("delete:f1") {
		t.Fatal("delete action alone must not delete")
	}

	confirm := decodePayload(t, `{"action":"confirmDelete"}`)
	s.handleAction(context.Background(), confirm)
	if !rs.has("delete:f1") {
		t.Fatalf("expected delete after confirm, got %v", rs.ops)
	}
}

func TestUnknownActionIsIgnored(t *testing.T) {
	s, rs := newTestSession(t)
	drain(s)

	p := decodePayload(t, `{"action":"selfdestruct"}`)
	s.handleAction(context.Background(), p)

	rs.mu.Lock()
	n := len(rs.ops)
	rs.mu.Unlock()
	if n != 1 { // only the initial subscribe
		t.Fatalf("unexpected store activity: %v", rs.ops)
	}
}
