package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Feedback is the backend's analysis of the client message. Read-only.
type Feedback struct {
	Tone                  string
	SolutionEffectiveness string
	Suggestions           []string
}

// Reply is one generate-reply response: feedback plus selectable reply options.
type Reply struct {
	Feedback Feedback
	Replies  []string
}

type ContentKind int

const (
	ContentText ContentKind = iota
	ContentFeedback
)

func (k ContentKind) String() string {
	if k == ContentFeedback {
		return "feedback"
	}
	return "text"
}

// Content is either plain text or structured feedback, never both.
type Content struct {
	kind  ContentKind
	text  string
	reply Reply
}

func TextContent(text string) Content {
	return Content{kind: ContentText, text: text}
}

func FeedbackContent(reply Reply) Content {
	reply.Replies = append([]string(nil), reply.Replies...)
	reply.Feedback.Suggestions = append([]string(nil), reply.Feedback.Suggestions...)
	return Content{kind: ContentFeedback, reply: reply}
}

func (c Content) Kind() ContentKind { return c.kind }

// Text returns the plain text of a text turn and "" for feedback turns.
func (c Content) Text() string {
	if c.kind != ContentText {
		return ""
	}
	return c.text
}

func (c Content) Reply() (Reply, bool) {
	if c.kind != ContentFeedback {
		return Reply{}, false
	}
	return c.reply, true
}

// Summary flattens the content to a single text block for transcripts.
func (c Content) Summary() string {
	if c.kind == ContentText {
		return c.text
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tone: %s\n", c.reply.Feedback.Tone)
	fmt.Fprintf(&sb, "Solution Effectiveness: %s\n", c.reply.Feedback.SolutionEffectiveness)
	if len(c.reply.Feedback.Suggestions) > 0 {
		fmt.Fprintf(&sb, "Suggestions: %s\n", strings.Join(c.reply.Feedback.Suggestions, "; "))
	}
	for i, r := range c.reply.Replies {
		fmt.Fprintf(&sb, "Reply %d: %s\n", i+1, r)
	}
	return strings.TrimRight(sb.String(), "\n")
}

type Turn struct {
	Role    Role
	Content Content
}

func UserText(text string) Turn {
	return Turn{Role: RoleUser, Content: TextContent(text)}
}

func AssistantText(text string) Turn {
	return Turn{Role: RoleAssistant, Content: TextContent(text)}
}

func AssistantFeedback(reply Reply) Turn {
	return Turn{Role: RoleAssistant, Content: FeedbackContent(reply)}
}
