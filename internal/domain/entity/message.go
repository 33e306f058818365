package entity

import "time"

// Message is a ledger entry. Only Read changes after insert.
type Message struct {
	ID             string    `json:"id" bson:"_id"`
	From           string    `json:"from" bson:"from"`
	FromModel      Role      `json:"fromModel" bson:"fromModel"`
	To             string    `json:"to" bson:"to"`
	ToModel        Role      `json:"toModel" bson:"toModel"`
	Text           string    `json:"text" bson:"text"`
	Read           bool      `json:"read" bson:"read"`
	ConversationID string    `json:"conversationId" bson:"conversationId"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (m *Message) Sender() Participant {
	return Participant{ID: m.From, Role: m.FromModel}
}

func (m *Message) Recipient() Participant {
	return Participant{ID: m.To, Role: m.ToModel}
}

// Involves reports whether p is the sender or the recipient.
func (m *Message) Involves(p Participant) bool {
	return m.Sender() == p || m.Recipient() == p
}

// EmbeddedMessage is the display-name addressed form shown in an entity's message view.
// It carries no reference back to a ledger entry.
type EmbeddedMessage struct {
	From      string    `json:"from" bson:"from"`
	To        string    `json:"to" bson:"to"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DirectMessageSummary is the reduced response of the direct-message endpoint.
type DirectMessageSummary struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

const SystemSender = "CharityConnect Team"

// WelcomeMessages returns the notices every new entity starts with.
func WelcomeMessages(name string, role Role, now time.Time) []EmbeddedMessage {
	second := "You can send and receive messages with charities through this platform."
	third := "Follow charities you care about to stay updated with their work."
	if role == RoleCharity {
		second = "You can send and receive messages with donors through this platform."
		third = "Create posts to share updates about your work with your followers."
	}

	texts := []string{
		"Welcome to CharityConnect, " + name + "! This is where you'll find your messages and notifications.",
		second,
		third,
	}

	out := make([]EmbeddedMessage, 0, len(texts))
	for _, text := range texts {
		out = append(out, EmbeddedMessage{
			From:      SystemSender,
			To:        name,
			Message:   text,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out
}

// FollowNotice is appended to a charity when a donor follows or unfollows it.
func FollowNotice(donorName, charityName string, follow bool, now time.Time) EmbeddedMessage {
	text := donorName + " has unfollowed your charity."
	if follow {
		text = donorName + " is now following your charity."
	}
	return EmbeddedMessage{
		From:      donorName,
		To:        charityName,
		Message:   text,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
