package usecase

import (
	"context"

	"cxassist/internal/modules/guideline/domain"
	guidelinedto "cxassist/internal/modules/guideline/dto"
	guidelinein "cxassist/internal/modules/guideline/port/in"
	"cxassist/internal/modules/guideline/service"
)

type Interactor struct {
	svc *service.GuidelineService
}

func NewInteractor(svc *service.GuidelineService) guidelinein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) StagePDF(ctx context.Context, staging *domain.Staging, path string) (guidelinedto.DocumentOutput, error) {
	doc, err := i.svc.StagePDF(ctx, staging, path)
	if err != nil {
		return guidelinedto.DocumentOutput{}, err
	}
	return guidelinedto.DocumentOutput{Name: doc.Name, Pages: doc.Pages, Size: doc.Size, Title: doc.Title}, nil
}

func (i *Interactor) SetText(staging *domain.Staging, text string) {
	staging.SetText(text)
}

func (i *Interactor) Ingest(_ context.Context, staging *domain.Staging) (guidelinedto.AckOutput, error) {
	ack, err := i.svc.Ingest(staging)
	if err != nil {
		return guidelinedto.AckOutput{}, err
	}
	return guidelinedto.AckOutput{Kind: ack.Kind.String(), Message: ack.Message}, nil
}

// IngestOnce stages input on a fresh staging area and ingests it.
func (i *Interactor) IngestOnce(ctx context.Context, input guidelinedto.IngestInput) (guidelinedto.AckOutput, error) {
	var staging domain.Staging
	if input.PDFPath != "" {
		if _, err := i.svc.StagePDF(ctx, &staging, input.PDFPath); err != nil {
			return guidelinedto.AckOutput{}, err
		}
	}
	staging.SetText(input.Text)
	return i.Ingest(ctx, &staging)
}
