package in

import (
	"context"

	"cxassist/internal/modules/guideline/domain"
	"cxassist/internal/modules/guideline/dto"
)

type Usecase interface {
	StagePDF(ctx context.Context, staging *domain.Staging, path string) (dto.DocumentOutput, error)
	SetText(staging *domain.Staging, text string)
	Ingest(ctx context.Context, staging *domain.Staging) (dto.AckOutput, error)
	IngestOnce(ctx context.Context, input dto.IngestInput) (dto.AckOutput, error)
}
