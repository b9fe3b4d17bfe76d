package usecase

import (
	"context"

	"cxassist/internal/modules/assist/domain"
	assistdto "cxassist/internal/modules/assist/dto"
	assistin "cxassist/internal/modules/assist/port/in"
	"cxassist/internal/modules/assist/service"
)

type Interactor struct {
	svc *service.AssistService
}

func NewInteractor(svc *service.AssistService) assistin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context, agentID string) *domain.Conversation {
	return i.svc.NewConversation(ctx, agentID)
}

func (i *Interactor) Attach(ctx context.Context, conv *domain.Conversation, paths []string) ([]domain.Attachment, error) {
	batch, err := i.svc.Inspect(ctx, paths)
	if err != nil {
		return nil, err
	}
	if err := conv.AddAttachments(batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (i *Interactor) Begin(ctx context.Context, conv *domain.Conversation) (domain.Request, error) {
	req, turn, err := conv.Begin()
	if err != nil {
		return domain.Request{}, err
	}
	i.svc.Record(ctx, conv, turn)
	return req, nil
}

func (i *Interactor) Dispatch(ctx context.Context, req domain.Request) (domain.Reply, error) {
	return i.svc.Generate(ctx, req)
}

func (i *Interactor) Complete(ctx context.Context, conv *domain.Conversation, gen uint64, reply domain.Reply, failure error) (domain.Turn, bool) {
	turn, ok := conv.Complete(gen, reply, failure)
	if ok {
		i.svc.Record(ctx, conv, turn)
	}
	return turn, ok
}

// Send runs one full submission synchronously. Backend failures become the
// error turn in the output and are also returned.
func (i *Interactor) Send(ctx context.Context, conv *domain.Conversation, input assistdto.SendInput) (assistdto.SendOutput, error) {
	if err := conv.SetPrompt(input.Prompt); err != nil {
		return assistdto.SendOutput{}, err
	}
	if len(input.Files) > 0 {
		if _, err := i.Attach(ctx, conv, input.Files); err != nil {
			return assistdto.SendOutput{}, err
		}
	}
	req, err := i.Begin(ctx, conv)
	if err != nil {
		return assistdto.SendOutput{}, err
	}
	turns := conv.Turns()
	user := turns[len(turns)-1]

	reply, failure := i.Dispatch(ctx, req)
	assistant, _ := i.Complete(ctx, conv, req.Generation, reply, failure)
	return assistdto.SendOutput{
		ConversationID: conv.ID,
		User:           TurnOutput(user),
		Assistant:      TurnOutput(assistant),
		Failed:         failure != nil,
	}, failure
}

func (i *Interactor) SelectReply(ctx context.Context, conv *domain.Conversation, index int) (domain.Turn, error) {
	turn, err := conv.SelectReply(index)
	if err != nil {
		return domain.Turn{}, err
	}
	i.svc.Record(ctx, conv, turn)
	return turn, nil
}

func (i *Interactor) History(ctx context.Context, input assistdto.HistoryInput) ([]assistdto.TranscriptLine, error) {
	entries, err := i.svc.History(ctx, input.AgentID, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]assistdto.TranscriptLine, 0, len(entries))
	for _, e := range entries {
		out = append(out, assistdto.TranscriptLine{
			ConversationID: e.ConversationID,
			Seq:            e.Seq,
			Role:           string(e.Role),
			Kind:           e.Kind.String(),
			Body:           e.Body,
			At:             e.At,
		})
	}
	return out, nil
}

// TurnOutput converts a domain turn for presentation.
func TurnOutput(turn domain.Turn) assistdto.TurnOutput {
	out := assistdto.TurnOutput{
		Role: string(turn.Role),
		Kind: turn.Content.Kind().String(),
		Text: turn.Content.Text(),
	}
	if reply, ok := turn.Content.Reply(); ok {
		out.Feedback = &assistdto.FeedbackOutput{
			Tone:                  reply.Feedback.Tone,
			SolutionEffectiveness: reply.Feedback.SolutionEffectiveness,
			Suggestions:           reply.Feedback.Suggestions,
		}
		out.Replies = reply.Replies
	}
	return out
}
