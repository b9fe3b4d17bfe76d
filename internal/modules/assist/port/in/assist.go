package in

import (
	"context"

	"cxassist/internal/modules/assist/domain"
	"cxassist/internal/modules/assist/dto"
)

// Usecase drives one agent conversation. State changes (Begin, Complete,
// SelectReply) must run on the owner's event loop; Dispatch only talks to the
// backend and may run anywhere.
type Usecase interface {
	Start(ctx context.Context, agentID string) *domain.Conversation
	Attach(ctx context.Context, conv *domain.Conversation, paths []string) ([]domain.Attachment, error)
	Begin(ctx context.Context, conv *domain.Conversation) (domain.Request, error)
	Dispatch(ctx context.Context, req domain.Request) (domain.Reply, error)
	Complete(ctx context.Context, conv *domain.Conversation, gen uint64, reply domain.Reply, failure error) (domain.Turn, bool)
	Send(ctx context.Context, conv *domain.Conversation, input dto.SendInput) (dto.SendOutput, error)
	SelectReply(ctx context.Context, conv *domain.Conversation, index int) (domain.Turn, error)
	History(ctx context.Context, input dto.HistoryInput) ([]dto.TranscriptLine, error)
}
