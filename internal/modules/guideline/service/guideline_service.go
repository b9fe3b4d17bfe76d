package service

import (
	"context"

	"go.uber.org/zap"

	"cxassist/internal/modules/guideline/domain"
	guidelineout "cxassist/internal/modules/guideline/port/out"
	apperrors "cxassist/internal/platform/errors"
)

type GuidelineService struct {
	inspector guidelineout.PDFInspector
	logger    *zap.Logger
}

func NewGuidelineService(inspector guidelineout.PDFInspector, logger *zap.Logger) *GuidelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuidelineService{inspector: inspector, logger: logger}
}

// StagePDF validates path and stages it. Any failure clears the staged PDF.
func (s *GuidelineService) StagePDF(ctx context.Context, staging *domain.Staging, path string) (domain.Document, error) {
	if !domain.HasPDFExtension(path) {
		staging.ClearPDF()
		return domain.Document{}, apperrors.ErrNotPDF
	}
	doc, err := s.inspector.Inspect(ctx, path)
	if err != nil {
		staging.ClearPDF()
		s.logger.Info("guideline pdf rejected", zap.String("path", path), zap.Error(err))
		return domain.Document{}, apperrors.ErrNotPDF
	}
	staging.StagePDF(doc)
	return doc, nil
}

func (s *GuidelineService) Ingest(staging *domain.Staging) (domain.Ack, error) {
	ack, err := staging.Ingest()
	if err != nil {
		return domain.Ack{}, err
	}
	s.logger.Info("guideline ingest acknowledged", zap.Stringer("kind", ack.Kind), zap.String("name", ack.Name))
	return ack, nil
}
