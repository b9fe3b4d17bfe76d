package dto

import "time"

type TurnOutput struct {
	Role     string
	Kind     string
	Text     string
	Feedback *FeedbackOutput
	Replies  []string
}

type FeedbackOutput struct {
	Tone                  string
	SolutionEffectiveness string
	Suggestions           []string
}

type SendInput struct {
	Prompt string
	Files  []string
}

type SendOutput struct {
	ConversationID string
	User           TurnOutput
	Assistant      TurnOutput
	Failed         bool
}

type HistoryInput struct {
	AgentID string
	Limit   int
}

type TranscriptLine struct {
	ConversationID string
	Seq            int
	Role           string
	Kind           string
	Body           string
	At             time.Time
}
