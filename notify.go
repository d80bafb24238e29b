package personasim

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// ──────────────────────────────────────────────
// Notifier — fire-and-forget event boundary
// ──────────────────────────────────────────────

// EventKind names a notification emitted by the core.
type EventKind string

const (
	EventEmotionUpdated     EventKind = "emotion_updated"
	EventKnowledgeLearned   EventKind = "knowledge_learned"
	EventMemoryCreated      EventKind = "memory_created"
	EventDreamRecorded      EventKind = "dream_recorded"
	EventConversationSealed EventKind = "conversation_sealed"
	EventActivitySelected   EventKind = "activity_selected"
)

// Event is a fire-and-forget notification. The core never blocks
// waiting for a subscriber.
type Event struct {
	Kind    EventKind              `json:"kind"`
	AgentID string                 `json:"agent_id"`
	At      time.Time              `json:"at"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Notifier receives events from the core. Implementations must not block.
type Notifier interface {
	Notify(Event)
}

// NopNotifier discards all events. The default when none is wired.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}

// ──────────────────────────────────────────────
// NATSNotifier
// ──────────────────────────────────────────────

// NATSNotifier publishes events as JSON to "persona.<kind>" subjects.
// Publishing happens on a drain goroutine fed by a buffered channel; a
// full buffer drops the event with a log line rather than blocking the
// simulation.
type NATSNotifier struct {
	conn    *nats.Conn
	prefix  string
	ch      chan Event
	done    chan struct{}
	drained chan struct{}
}

// NewNATSNotifier connects to the given NATS URL and starts the drain
// goroutine. Close releases the connection.
func NewNATSNotifier(url, prefix string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url, nats.Timeout(10*time.Second))
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "persona"
	}
	n := &NATSNotifier{
		conn:    conn,
		prefix:  prefix,
		ch:      make(chan Event, 256),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}
	go n.drain()
	return n, nil
}

// Notify enqueues the event, dropping it if the buffer is full.
func (n *NATSNotifier) Notify(ev Event) {
	select {
	case n.ch <- ev:
	default:
		log.Printf("[NATSNotifier] buffer full, dropping %s for %s", ev.Kind, ev.AgentID)
	}
}

// Close stops the drain goroutine, flushes what it already accepted,
// and only then closes the connection.
func (n *NATSNotifier) Close() {
	close(n.done)
	<-n.drained
	if err := n.conn.Flush(); err != nil {
		log.Printf("[NATSNotifier] flush on close: %v", err)
	}
	n.conn.Close()
}

func (n *NATSNotifier) drain() {
	defer close(n.drained)
	for {
		select {
		case ev := <-n.ch:
			n.publish(ev)
		case <-n.done:
			// empty whatever the buffer still holds before handing
			// the connection back to Close
			for {
				select {
				case ev := <-n.ch:
					n.publish(ev)
				default:
					return
				}
			}
		}
	}
}

func (n *NATSNotifier) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[NATSNotifier] marshal failed: %v", err)
		return
	}
	subject := n.prefix + "." + string(ev.Kind)
	if err := n.conn.Publish(subject, data); err != nil {
		log.Printf("[NATSNotifier] publish to %s failed: %v", subject, err)
	}
}
