package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cxassist/internal/modules/assist/domain"
	assistout "cxassist/internal/modules/assist/port/out"
	"cxassist/internal/platform/clock"
	apperrors "cxassist/internal/platform/errors"
	"cxassist/internal/platform/id"
)

type AssistService struct {
	generator  assistout.ReplyGenerator
	inspector  assistout.AttachmentInspector
	transcript assistout.TranscriptStore
	clock      clock.Clock
	ids        id.Generator
	logger     *zap.Logger
}

func NewAssistService(
	generator assistout.ReplyGenerator,
	inspector assistout.AttachmentInspector,
	transcript assistout.TranscriptStore,
	clk clock.Clock,
	ids id.Generator,
	logger *zap.Logger,
) *AssistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistService{
		generator:  generator,
		inspector:  inspector,
		transcript: transcript,
		clock:      clk,
		ids:        ids,
		logger:     logger,
	}
}

func (s *AssistService) NewConversation(ctx context.Context, agentID string) *domain.Conversation {
	conv := domain.NewConversation(s.ids.New(), agentID)
	turns := conv.Turns()
	s.Record(ctx, conv, turns[len(turns)-1])
	return conv
}

// Inspect resolves every path before any of them is attached.
func (s *AssistService) Inspect(ctx context.Context, paths []string) ([]domain.Attachment, error) {
	if len(paths) > domain.MaxAttachments {
		return nil, fmt.Errorf("%d files requested: %w", len(paths), apperrors.ErrAttachmentLimit)
	}
	out := make([]domain.Attachment, 0, len(paths))
	for _, path := range paths {
		att, err := s.inspector.Inspect(ctx, path)
		if err != nil {
			return nil, err
		}
		out = append(out, att)
	}
	return out, nil
}

func (s *AssistService) Generate(ctx context.Context, req domain.Request) (domain.Reply, error) {
	started := s.clock.Now()
	reply, err := s.generator.Generate(ctx, req)
	fields := []zap.Field{
		zap.Uint64("generation", req.Generation),
		zap.Int("attachments", len(req.Attachments)),
		zap.Duration("elapsed", s.clock.Now().Sub(started)),
	}
	if err != nil {
		s.logger.Warn("generate reply failed", append(fields, zap.Error(err))...)
		return domain.Reply{}, err
	}
	s.logger.Debug("generate reply", append(fields, zap.Int("replies", len(reply.Replies)))...)
	return reply, nil
}

// Record appends turn to the transcript. Failures are logged and never surface
// to the conversation.
func (s *AssistService) Record(ctx context.Context, conv *domain.Conversation, turn domain.Turn) {
	if s.transcript == nil {
		return
	}
	seq := len(conv.Turns()) - 1
	entry := domain.NewTranscriptEntry(conv, seq, turn, s.clock.Now())
	if err := s.transcript.Append(ctx, entry); err != nil {
		s.logger.Warn("transcript append failed",
			zap.String("conversation", conv.ID),
			zap.Int("seq", seq),
			zap.Error(err),
		)
	}
}

func (s *AssistService) History(ctx context.Context, agentID string, limit int) ([]domain.TranscriptEntry, error) {
	if s.transcript == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.transcript.List(ctx, agentID, limit)
}
