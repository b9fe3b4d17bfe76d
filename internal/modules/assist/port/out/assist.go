package out

import (
	"context"

	"cxassist/internal/modules/assist/domain"
)

type ReplyGenerator interface {
	Generate(ctx context.Context, req domain.Request) (domain.Reply, error)
}

type AttachmentInspector interface {
	Inspect(ctx context.Context, path string) (domain.Attachment, error)
}

type TranscriptStore interface {
	Append(ctx context.Context, entry domain.TranscriptEntry) error
	List(ctx context.Context, agentID string, limit int) ([]domain.TranscriptEntry, error)
	Close() error
}
