package domain

import "time"

// TranscriptEntry is one persisted conversation turn.
type TranscriptEntry struct {
	ConversationID string
	AgentID        string
	Seq            int
	Role           Role
	Kind           ContentKind
	Body           string
	At             time.Time
}

func NewTranscriptEntry(conv *Conversation, seq int, turn Turn, at time.Time) TranscriptEntry {
	return TranscriptEntry{
		ConversationID: conv.ID,
		AgentID:        conv.AgentID,
		Seq:            seq,
		Role:           turn.Role,
		Kind:           turn.Content.Kind(),
		Body:           turn.Content.Summary(),
		At:             at.UTC(),
	}
}
