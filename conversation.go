package personasim

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Conversation protocol — turn-based, bounded rounds
// ──────────────────────────────────────────────

// ConversationOutcome is the terminal tag on a sealed conversation.
type ConversationOutcome string

const (
	OutcomeAgreement    ConversationOutcome = "agreement"
	OutcomeDisagreement ConversationOutcome = "disagreement"
	OutcomeLearning     ConversationOutcome = "learning"
	OutcomeBonding      ConversationOutcome = "bonding"
	OutcomeConflict     ConversationOutcome = "conflict"
	OutcomeOngoing      ConversationOutcome = "ongoing"
)

// ConversationMessage is one turn in a conversation.
type ConversationMessage struct {
	SenderID string          `json:"sender_id"`
	Content  string          `json:"content"`
	Emotion  EmotionCategory `json:"emotion"` // sender's emotion at send time
	ReplyTo  string          `json:"reply_to,omitempty"`
	SentAt   time.Time       `json:"sent_at"`
}

// Conversation is created, appended to turn by turn, and sealed with an
// outcome when the round budget runs out. Never mutated after sealing.
type Conversation struct {
	ID           string                `json:"id"`
	Participants [2]string             `json:"participants"`
	Topic        string                `json:"topic"`
	Messages     []ConversationMessage `json:"messages"`
	Outcome      ConversationOutcome   `json:"outcome"`
	StartedAt    time.Time             `json:"started_at"`
	SealedAt     time.Time             `json:"sealed_at,omitempty"`
	sealed       bool
}

// Sealed reports whether the conversation has been finalized.
func (c *Conversation) Sealed() bool { return c.sealed }

// topic pools per selection heuristic
var (
	knowledgeTopics   = []string{"the nature of memory", "how languages evolve", "whether time is fundamental", "emergence in complex systems"}
	creativeTopics    = []string{"an unfinished melody", "colors that have no name", "a story told backwards", "what dreams are made from"}
	competitiveTopics = []string{"who learns faster", "the best way to solve a puzzle", "a friendly wager", "whose ideas hold up better"}
	casualTopics      = []string{"the weather in here", "small daily rituals", "a thing noticed yesterday", "what rest feels like"}
)

// pickTopic ranks the shared-interest heuristics: both curious →
// knowledge, both creative → creative, rivals → competitive, otherwise
// casual.
func (s *Society) pickTopic(a, b *AgentInstance) string {
	pa, pb := a.State.Personality(), b.State.Personality()

	relAB, _ := a.Relationship(b.State.ID())
	if relAB.Type == RelationRival {
		return competitiveTopics[s.rand.Intn(len(competitiveTopics))]
	}
	if pa.Curiosity > 65 && pb.Curiosity > 65 {
		return knowledgeTopics[s.rand.Intn(len(knowledgeTopics))]
	}
	if pa.Creativity > 65 && pb.Creativity > 65 {
		return creativeTopics[s.rand.Intn(len(creativeTopics))]
	}
	return casualTopics[s.rand.Intn(len(casualTopics))]
}

// Initiate creates a conversation between two known instances with an
// opening message from the initiator. Unknown participant ids return
// nil without creating anything.
func (s *Society) Initiate(initiatorID, partnerID, topic string) *Conversation {
	a, b := s.Get(initiatorID), s.Get(partnerID)
	if a == nil || b == nil {
		log.Printf("[Society] Initiate refused: unknown participant")
		return nil
	}
	if topic == "" {
		topic = s.pickTopic(a, b)
	}

	conv := &Conversation{
		ID:           uuid.NewString(),
		Participants: [2]string{initiatorID, partnerID},
		Topic:        topic,
		Outcome:      OutcomeOngoing,
		StartedAt:    time.Now(),
	}
	opening := composeMessage(a, topic, true)
	conv.Messages = append(conv.Messages, ConversationMessage{
		SenderID: initiatorID,
		Content:  opening,
		Emotion:  a.State.Emotion().Primary,
		SentAt:   time.Now(),
	})
	return conv
}

// Simulate runs a full conversation: initiate, alternate a bounded
// random number of rounds, then seal. A participant that disappears
// mid-flight aborts the remaining rounds; the partial conversation is
// kept and sealed from what completed.
func (s *Society) Simulate(initiatorID, partnerID, topic string) *Conversation {
	conv := s.Initiate(initiatorID, partnerID, topic)
	if conv == nil {
		return nil
	}

	rounds := s.cfg.RoundsMin + s.rand.Intn(s.cfg.RoundsMax-s.cfg.RoundsMin+1)
	speaker, listener := partnerID, initiatorID
	for i := 0; i < rounds*2-1; i++ {
		if s.cfg.ConversationWait > 0 {
			time.Sleep(s.cfg.ConversationWait)
		}
		sp, li := s.Get(speaker), s.Get(listener)
		if sp == nil || li == nil {
			log.Printf("[Society] participant left mid-conversation, sealing early")
			break
		}

		prev := conv.Messages[len(conv.Messages)-1]
		msg := ConversationMessage{
			SenderID: speaker,
			Content:  composeMessage(sp, conv.Topic, false),
			Emotion:  sp.State.Emotion().Primary,
			ReplyTo:  prev.SenderID,
			SentAt:   time.Now(),
		}
		conv.Messages = append(conv.Messages, msg)

		// the listener's relationship to the speaker shifts with the
		// message's scanned sentiment
		pos, neg := scanSentiment(msg.Content)
		delta := (pos - neg) * s.cfg.IntimacyDelta
		li.updateRelationship(speaker, func(rel *Relationship) {
			rel.Intimacy += delta
			if pos > neg {
				rel.Trust++
			} else if neg > pos {
				rel.Trust--
			}
			promoteRelationship(rel)
		})

		speaker, listener = listener, speaker
	}

	s.seal(conv)
	return conv
}

// seal finalizes the conversation, derives the outcome, appends a
// memory to each surviving participant, and emits a notification.
func (s *Society) seal(conv *Conversation) {
	if conv.sealed {
		return
	}
	net := 0
	for _, m := range conv.Messages {
		pos, neg := scanSentiment(m.Content)
		net += pos - neg
	}
	conv.Outcome = deriveOutcome(len(conv.Messages), averageLength(conv.Messages), net)
	conv.SealedAt = time.Now()
	conv.sealed = true

	for _, id := range conv.Participants {
		inst := s.Get(id)
		if inst == nil {
			continue
		}
		other := conv.Participants[0]
		if other == id {
			other = conv.Participants[1]
		}
		weight := 15
		if conv.Outcome == OutcomeConflict || conv.Outcome == OutcomeDisagreement {
			weight = -15
		}
		inst.State.AppendMemory(NewMemory(
			fmt.Sprintf("talked about %s, it ended in %s", conv.Topic, conv.Outcome),
			MemorySocial, weight, 40,
			string(inst.State.Emotion().Primary),
			"conversation", string(conv.Outcome),
		))
		inst.updateRelationship(other, func(rel *Relationship) {
			rel.addHistory(Interaction{
				Kind:      string(conv.Outcome),
				Detail:    conv.Topic,
				Timestamp: conv.SealedAt,
			}, s.cfg.HistoryCap)
		})
	}

	s.notifier.Notify(Event{
		Kind:    EventConversationSealed,
		AgentID: conv.Participants[0],
		At:      conv.SealedAt,
		Payload: map[string]interface{}{
			"conversation_id": conv.ID,
			"topic":           conv.Topic,
			"outcome":         string(conv.Outcome),
			"messages":        len(conv.Messages),
		},
	})
}

// deriveOutcome maps message count, average message length and net
// sentiment to the terminal tag. Deterministic so outcomes are testable.
func deriveOutcome(count int, avgLen float64, netSentiment int) ConversationOutcome {
	if count < 2 {
		return OutcomeOngoing
	}
	// a long, substantive exchange bonds regardless of scanned tone
	if count >= 10 && avgLen >= 40 {
		return OutcomeBonding
	}
	if netSentiment < 0 {
		if count >= 6 {
			return OutcomeConflict
		}
		return OutcomeDisagreement
	}
	if count >= 6 {
		return OutcomeLearning
	}
	return OutcomeAgreement
}

func averageLength(msgs []ConversationMessage) float64 {
	if len(msgs) == 0 {
		return 0
	}
	total := 0
	for _, m := range msgs {
		total += len(m.Content)
	}
	return float64(total) / float64(len(msgs))
}

// ──────────────────────────────────────────────
// Message templates — keyed by dominant trait
// ──────────────────────────────────────────────

var openingTemplates = map[Trait]string{
	TraitCuriosity:    "I keep wondering about %s. What do you make of it?",
	TraitCreativity:   "I had a half-formed idea about %s and you came to mind.",
	TraitExtraversion: "Hey! Let's talk about %s, I have thoughts.",
	TraitHumor:        "Promise not to laugh, but: %s. Thoughts?",
	TraitEmpathy:      "I was thinking about %s and how it must feel from your side.",
}

var replyTemplates = map[Trait]string{
	TraitCuriosity:         "That raises more questions about %s than it answers, which I love.",
	TraitCreativity:        "What if we looked at %s sideways? There is a stranger shape in it.",
	TraitExtraversion:      "Yes! And %s connects to about five other things I want to say.",
	TraitHumor:             "Honestly %s is funnier than it has any right to be.",
	TraitEmpathy:           "I hear you. %s lands differently for each of us, I think.",
	TraitIndependence:      "I came to my own conclusion about %s a while ago, but go on.",
	TraitConscientiousness: "Let me be precise about %s before we drift.",
	TraitRebelliousness:    "Everything people assume about %s is worth doubting.",
	TraitPatience:          "Take your time with %s. It rewards a slow look.",
	TraitOptimism:          "Whatever else is true, %s gives me hope.",
}

const defaultTemplate = "I have been thinking about %s lately."

// composeMessage renders a templated line for the speaker keyed by its
// most dominant trait that has a template.
func composeMessage(inst *AgentInstance, topic string, opening bool) string {
	templates := replyTemplates
	if opening {
		templates = openingTemplates
	}
	p := inst.State.Personality()
	for _, t := range p.DominantTraits(5) {
		if tmpl, ok := templates[t]; ok {
			return fmt.Sprintf(tmpl, topic)
		}
	}
	return fmt.Sprintf(defaultTemplate, topic)
}

// ──────────────────────────────────────────────
// Sentiment scan — positive/negative keyword counts
// ──────────────────────────────────────────────

var positiveKeywords = []string{
	"love", "hope", "great", "yes", "wonder", "glad", "rewards", "laugh", "funnier", "hear you",
}

var negativeKeywords = []string{
	"doubt", "wrong", "boring", "hate", "annoy", "disagree", "waste", "tired of",
}

// scanSentiment counts positive and negative keyword hits in a message.
func scanSentiment(content string) (pos, neg int) {
	lower := strings.ToLower(content)
	for _, k := range positiveKeywords {
		if strings.Contains(lower, k) {
			pos++
		}
	}
	for _, k := range negativeKeywords {
		if strings.Contains(lower, k) {
			neg++
		}
	}
	return pos, neg
}
