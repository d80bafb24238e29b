package personasim

import (
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
)

// ══════════════════════════════════════════════
// NATSNotifier tests
// ══════════════════════════════════════════════

func TestNATSNotifierCloseFlushesBuffer(t *testing.T) {
	srv := natsserver.RunRandClientPortServer()
	defer srv.Shutdown()

	sc, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("subscriber connect: %v", err)
	}
	defer sc.Close()
	sub, err := sc.SubscribeSync("persona.>")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	n, err := NewNATSNotifier(srv.ClientURL(), "persona")
	if err != nil {
		t.Fatalf("notifier connect: %v", err)
	}

	const queued = 20
	for i := 0; i < queued; i++ {
		n.Notify(Event{Kind: EventEmotionUpdated, AgentID: "ada", At: time.Now()})
	}
	// events still sitting in the buffer must reach the wire
	n.Close()

	for i := 0; i < queued; i++ {
		if _, err := sub.NextMsg(2 * time.Second); err != nil {
			t.Fatalf("event %d lost across Close: %v", i, err)
		}
	}
}

func TestNATSNotifierSubjectPerKind(t *testing.T) {
	srv := natsserver.RunRandClientPortServer()
	defer srv.Shutdown()

	sc, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("subscriber connect: %v", err)
	}
	defer sc.Close()
	sub, err := sc.SubscribeSync("persona.dream_recorded")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	n, err := NewNATSNotifier(srv.ClientURL(), "persona")
	if err != nil {
		t.Fatalf("notifier connect: %v", err)
	}
	n.Notify(Event{Kind: EventDreamRecorded, AgentID: "ada", At: time.Now()})
	n.Close()

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("no message on kind subject: %v", err)
	}
	if msg.Subject != "persona.dream_recorded" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
}
