package domain

import (
	"fmt"
	"strings"

	apperrors "cxassist/internal/platform/errors"
)

// Request is the snapshot sent to the backend for one submission.
type Request struct {
	Generation  uint64
	Prompt      string
	Attachments []Attachment
}

// Conversation is the assist flow state for one agent. It is not safe for
// concurrent use; the owner serialises access on its event loop.
type Conversation struct {
	ID      string
	AgentID string

	turns       []Turn
	prompt      string
	attachments AttachmentSet
	inFlight    bool
	generation  uint64
}

func Greeting(agentID string) string {
	name := agentID
	if name == "" {
		name = "CX"
	}
	return fmt.Sprintf("Hello %s, how can I help you today?", name)
}

func ErrorText(err error) string {
	return fmt.Sprintf("Error: %s. Please ensure the backend server is running.", err.Error())
}

func NewConversation(id, agentID string) *Conversation {
	return &Conversation{
		ID:      id,
		AgentID: agentID,
		turns:   []Turn{AssistantText(Greeting(agentID))},
	}
}

func (c *Conversation) Turns() []Turn {
	return append([]Turn(nil), c.turns...)
}

func (c *Conversation) Prompt() string { return c.prompt }

func (c *Conversation) Attachments() []Attachment { return c.attachments.Items() }

func (c *Conversation) InFlight() bool { return c.inFlight }

func (c *Conversation) Generation() uint64 { return c.generation }

func (c *Conversation) SetPrompt(prompt string) error {
	if c.inFlight {
		return apperrors.ErrSubmissionInFlight
	}
	c.prompt = prompt
	return nil
}

func (c *Conversation) AddAttachments(batch []Attachment) error {
	if c.inFlight {
		return apperrors.ErrSubmissionInFlight
	}
	return c.attachments.Add(batch)
}

// CanSubmit reports whether Begin would start a submission.
func (c *Conversation) CanSubmit() bool {
	return !c.inFlight && (strings.TrimSpace(c.prompt) != "" || c.attachments.Len() > 0)
}

// Begin appends the optimistic user turn and marks the conversation in flight.
// An empty prompt with no attachments is rejected without touching state.
func (c *Conversation) Begin() (Request, Turn, error) {
	if c.inFlight {
		return Request{}, Turn{}, apperrors.ErrSubmissionInFlight
	}
	prompt := strings.TrimSpace(c.prompt)
	if prompt == "" && c.attachments.Len() == 0 {
		return Request{}, Turn{}, apperrors.ErrEmptySubmission
	}
	label := prompt
	if label == "" {
		label = strings.Join(c.attachments.Names(), ", ")
	}
	turn := UserText(label)
	c.turns = append(c.turns, turn)
	c.inFlight = true
	c.generation++
	return Request{
		Generation:  c.generation,
		Prompt:      prompt,
		Attachments: c.attachments.Items(),
	}, turn, nil
}

// Complete records the outcome of the submission started with generation gen.
// Outcomes for a superseded generation are discarded and ok is false.
func (c *Conversation) Complete(gen uint64, reply Reply, failure error) (Turn, bool) {
	if !c.inFlight || gen != c.generation {
		return Turn{}, false
	}
	var turn Turn
	if failure != nil {
		turn = AssistantText(ErrorText(failure))
	} else {
		turn = AssistantFeedback(reply)
	}
	c.turns = append(c.turns, turn)
	c.inFlight = false
	c.prompt = ""
	c.attachments.Clear()
	return turn, true
}

// LatestReplies returns the reply options of the most recent feedback turn.
func (c *Conversation) LatestReplies() []string {
	for i := len(c.turns) - 1; i >= 0; i-- {
		if reply, ok := c.turns[i].Content.Reply(); ok {
			return append([]string(nil), reply.Replies...)
		}
	}
	return nil
}

// SelectReply records the agent's choice among the latest reply options.
func (c *Conversation) SelectReply(index int) (Turn, error) {
	replies := c.LatestReplies()
	if index < 0 || index >= len(replies) {
		return Turn{}, fmt.Errorf("reply option %d of %d: %w", index+1, len(replies), apperrors.ErrInvalidInput)
	}
	turn := UserText("Selected reply: " + replies[index])
	c.turns = append(c.turns, turn)
	return turn, nil
}

// Abandon invalidates any pending submission so its response is dropped.
func (c *Conversation) Abandon() {
	c.generation++
	c.inFlight = false
	c.prompt = ""
	c.attachments.Clear()
}
