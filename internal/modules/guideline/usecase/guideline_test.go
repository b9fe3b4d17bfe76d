package usecase_test

import (
	"context"
	"errors"
	"testing"

	"cxassist/internal/modules/guideline/domain"
	guidelinedto "cxassist/internal/modules/guideline/dto"
	"cxassist/internal/modules/guideline/service"
	"cxassist/internal/modules/guideline/usecase"
	apperrors "cxassist/internal/platform/errors"
)

type fakeInspector struct {
	calls int
	err   error
}

func (f *fakeInspector) Inspect(_ context.Context, path string) (domain.Document, error) {
	f.calls++
	if f.err != nil {
		return domain.Document{}, f.err
	}
	return domain.Document{Path: path, Name: "policy.pdf", Pages: 4}, nil
}

func TestStagePDFRejectsWrongExtensionWithoutOpening(t *testing.T) {
	t.Parallel()
	inspector := &fakeInspector{}
	uc := usecase.NewInteractor(service.NewGuidelineService(inspector, nil))
	var staging domain.Staging

	if _, err := uc.StagePDF(context.Background(), &staging, "/tmp/policy.pdf"); err != nil {
		t.Fatalf("stage: %v", err)
	}
	_, err := uc.StagePDF(context.Background(), &staging, "/tmp/notes.docx")
	if !errors.Is(err, apperrors.ErrNotPDF) || err.Error() != "Please select a PDF file." {
		t.Fatalf("expected not pdf, got %v", err)
	}
	if inspector.calls != 1 {
		t.Fatalf("wrong extension must not be opened, got %d calls", inspector.calls)
	}
	if _, ok := staging.PDF(); ok {
		t.Fatalf("rejected selection must clear the staged pdf")
	}
}

func TestStagePDFRejectsUnreadableDocument(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewGuidelineService(&fakeInspector{err: errors.New("open pdf: not a PDF file")}, nil))
	var staging domain.Staging
	if _, err := uc.StagePDF(context.Background(), &staging, "/tmp/broken.pdf"); !errors.Is(err, apperrors.ErrNotPDF) {
		t.Fatalf("expected not pdf, got %v", err)
	}
}

func TestIngestOnce(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewGuidelineService(&fakeInspector{}, nil))
	ctx := context.Background()

	ack, err := uc.IngestOnce(ctx, guidelinedto.IngestInput{PDFPath: "/tmp/policy.pdf"})
	if err != nil || ack.Message != "Uploading policy.pdf for guideline ingestion." || ack.Kind != "pdf" {
		t.Fatalf("unexpected pdf ack %+v %v", ack, err)
	}
	ack, err = uc.IngestOnce(ctx, guidelinedto.IngestInput{Text: "Be kind."})
	if err != nil || ack.Message != "Ingesting text guidelines." || ack.Kind != "text" {
		t.Fatalf("unexpected text ack %+v %v", ack, err)
	}
	if _, err := uc.IngestOnce(ctx, guidelinedto.IngestInput{}); !errors.Is(err, apperrors.ErrNothingToIngest) {
		t.Fatalf("expected nothing to ingest, got %v", err)
	}
}
