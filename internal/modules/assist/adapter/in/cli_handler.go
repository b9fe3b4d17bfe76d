package in

import (
	"context"

	"cxassist/internal/modules/assist/domain"
	assistdto "cxassist/internal/modules/assist/dto"
	assistin "cxassist/internal/modules/assist/port/in"
)

type CLIHandler struct {
	usecase assistin.Usecase
}

func NewCLIHandler(usecase assistin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, agentID string) *domain.Conversation {
	return h.usecase.Start(ctx, agentID)
}

func (h CLIHandler) Attach(ctx context.Context, conv *domain.Conversation, paths []string) ([]domain.Attachment, error) {
	return h.usecase.Attach(ctx, conv, paths)
}

func (h CLIHandler) Begin(ctx context.Context, conv *domain.Conversation) (domain.Request, error) {
	return h.usecase.Begin(ctx, conv)
}

func (h CLIHandler) Dispatch(ctx context.Context, req domain.Request) (domain.Reply, error) {
	return h.usecase.Dispatch(ctx, req)
}

func (h CLIHandler) Complete(ctx context.Context, conv *domain.Conversation, gen uint64, reply domain.Reply, failure error) (domain.Turn, bool) {
	return h.usecase.Complete(ctx, conv, gen, reply, failure)
}

func (h CLIHandler) Send(ctx context.Context, agentID, prompt string, files []string) (assistdto.SendOutput, *domain.Conversation, error) {
	conv := h.usecase.Start(ctx, agentID)
	out, err := h.usecase.Send(ctx, conv, assistdto.SendInput{Prompt: prompt, Files: files})
	return out, conv, err
}

func (h CLIHandler) SelectReply(ctx context.Context, conv *domain.Conversation, index int) (domain.Turn, error) {
	return h.usecase.SelectReply(ctx, conv, index)
}

func (h CLIHandler) History(ctx context.Context, agentID string, limit int) ([]assistdto.TranscriptLine, error) {
	return h.usecase.History(ctx, assistdto.HistoryInput{AgentID: agentID, Limit: limit})
}
