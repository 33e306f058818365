package entity

import "strings"

const conversationSeparator = "_"

// DeriveConversationID returns the same id for {a, b} and {b, a}. Each side is keyed as
// "<Role>:<id>" so a Donor and a Charity that happen to share an id never share a conversation.
func DeriveConversationID(a, b Participant) string {
	ka, kb := a.key(), b.key()
	if kb < ka {
		ka, kb = kb, ka
	}
	return ka + conversationSeparator + kb
}

// Party is the counterpart shown in a conversation summary.
type Party struct {
	ID    string `json:"id"`
	Model Role   `json:"model"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

const (
	UnknownPartyName  = "Unknown"
	UnknownPartyEmail = "unknown@example.com"
)

// Conversation is computed from the ledger on every read and never stored.
type Conversation struct {
	ID          string   `json:"id"`
	LastMessage *Message `json:"lastMessage"`
	OtherParty  Party    `json:"otherParty"`
	UnreadCount int64    `json:"unreadCount"`
}

// IsConversationID reports whether id has the shape produced by DeriveConversationID.
func IsConversationID(id string) bool {
	parts := strings.Split(id, conversationSeparator)
	if len(parts) != 2 {
		return false
	}
	for _, part := range parts {
		role, rest, ok := strings.Cut(part, ":")
		if !ok || rest == "" || !Role(role).Valid() {
			return false
		}
	}
	return true
}
