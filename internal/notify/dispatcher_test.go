package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

type fakeChannel struct {
	name     string
	failFor  int
	attempts int
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(_ context.Context, _ Message) error {
	f.attempts++
	if f.attempts <= f.failFor {
		return errors.New("delivery refused")
	}
	return nil
}

func newTestDispatcher(channels ...Channel) *Dispatcher {
	d := NewDispatcherWithChannels(channels, 3, time.Millisecond, zap.NewNop())
	d.sleep = func(time.Duration) {}
	return d
}

func testMessage() Message {
	return Message{
		TicketID:  7,
		OldStatus: domain.TicketStatusInProgress,
		NewStatus: domain.TicketStatusResolved,
		Title:     "broken projector",
		Resolver:  "s@x.com",
		Recipient: "a@x.com",
	}
}

func TestDispatchPrimarySucceeds(t *testing.T) {
	primary := &fakeChannel{name: "email"}
	secondary := &fakeChannel{name: "webhook"}

	newTestDispatcher(primary, secondary).Dispatch(context.Background(), testMessage())

	if primary.attempts != 1 {
		t.Errorf("primary attempts = %d, want 1", primary.attempts)
	}
	if secondary.attempts != 0 {
		t.Errorf("secondary attempts = %d, want 0 when primary delivers", secondary.attempts)
	}
}

func TestDispatchRetriesThenFallsBack(t *testing.T) {
	primary := &fakeChannel{name: "email", failFor: 99}
	secondary := &fakeChannel{name: "webhook", failFor: 1}

	newTestDispatcher(primary, secondary).Dispatch(context.Background(), testMessage())

	if primary.attempts != 3 {
		t.Errorf("primary attempts = %d, want full retry budget of 3", primary.attempts)
	}
	if secondary.attempts != 2 {
		t.Errorf("secondary attempts = %d, want 2 (one failure, one success)", secondary.attempts)
	}
}

func TestDispatchExhaustionDoesNotPanicOrError(t *testing.T) {
	primary := &fakeChannel{name: "email", failFor: 99}
	secondary := &fakeChannel{name: "webhook", failFor: 99}

	// Both channels failing must be absorbed entirely.
	newTestDispatcher(primary, secondary).Dispatch(context.Background(), testMessage())

	if primary.attempts != 3 || secondary.attempts != 3 {
		t.Errorf("attempts = %d/%d, want 3/3", primary.attempts, secondary.attempts)
	}
}

func TestDispatchLinearBackoff(t *testing.T) {
	var delays []time.Duration
	d := NewDispatcherWithChannels([]Channel{&fakeChannel{name: "email", failFor: 99}}, 3, time.Second, zap.NewNop())
	d.sleep = func(delay time.Duration) { delays = append(delays, delay) }

	d.Dispatch(context.Background(), testMessage())

	want := []time.Duration{time.Second, 2 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("recorded delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestWebhookChannelPosts(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
	}))
	defer server.Close()

	channel := NewWebhookChannel(server.URL)
	if err := channel.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if received["text"] == "" {
		t.Error("webhook payload missing text field")
	}
}

func TestWebhookChannelRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if err := NewWebhookChannel(server.URL).Send(context.Background(), testMessage()); err == nil {
		t.Error("Send() should fail on non-2xx status")
	}
}
