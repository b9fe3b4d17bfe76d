package in

import (
	"context"

	"cxassist/internal/modules/guideline/domain"
	guidelinedto "cxassist/internal/modules/guideline/dto"
	guidelinein "cxassist/internal/modules/guideline/port/in"
)

type CLIHandler struct {
	usecase guidelinein.Usecase
}

func NewCLIHandler(usecase guidelinein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) StagePDF(ctx context.Context, staging *domain.Staging, path string) (guidelinedto.DocumentOutput, error) {
	return h.usecase.StagePDF(ctx, staging, path)
}

func (h CLIHandler) SetText(staging *domain.Staging, text string) {
	h.usecase.SetText(staging, text)
}

func (h CLIHandler) Ingest(ctx context.Context, staging *domain.Staging) (guidelinedto.AckOutput, error) {
	return h.usecase.Ingest(ctx, staging)
}

func (h CLIHandler) IngestOnce(ctx context.Context, pdfPath, text string) (guidelinedto.AckOutput, error) {
	return h.usecase.IngestOnce(ctx, guidelinedto.IngestInput{PDFPath: pdfPath, Text: text})
}
