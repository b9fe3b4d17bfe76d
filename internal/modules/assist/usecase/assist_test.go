package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"cxassist/internal/modules/assist/domain"
	assistdto "cxassist/internal/modules/assist/dto"
	assistin "cxassist/internal/modules/assist/port/in"
	"cxassist/internal/modules/assist/service"
	"cxassist/internal/modules/assist/usecase"
	"cxassist/internal/platform/clock"
	apperrors "cxassist/internal/platform/errors"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []domain.Request
	reply domain.Reply
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, req domain.Request) (domain.Reply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	return g.reply, g.err
}

type fakeInspector struct{}

func (fakeInspector) Inspect(_ context.Context, path string) (domain.Attachment, error) {
	if path == "missing.png" {
		return domain.Attachment{}, apperrors.ErrNotFound
	}
	return domain.Attachment{Path: path, Name: path, MediaType: "image/png"}, nil
}

type memoryTranscript struct {
	entries []domain.TranscriptEntry
	err     error
}

func (m *memoryTranscript) Append(_ context.Context, e domain.TranscriptEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryTranscript) List(_ context.Context, agentID string, limit int) ([]domain.TranscriptEntry, error) {
	var out []domain.TranscriptEntry
	for _, e := range m.entries {
		if agentID == "" || e.AgentID == agentID {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memoryTranscript) Close() error { return nil }

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return "conv-" + string(rune('0'+s.n))
}

func newInteractor(gen *fakeGenerator, transcript *memoryTranscript) assistin.Usecase {
	clk := clock.Fixed{At: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := service.NewAssistService(gen, fakeInspector{}, transcript, clk, &seqIDs{}, nil)
	return usecase.NewInteractor(svc)
}

func refundReply() domain.Reply {
	return domain.Reply{
		Feedback: domain.Feedback{Tone: "Frustrated", SolutionEffectiveness: "Low", Suggestions: []string{"Apologize first"}},
		Replies:  []string{"R1", "R2", "R3"},
	}
}

func TestSendRefundRequestProducesFeedbackTurn(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: refundReply()}
	transcript := &memoryTranscript{}
	uc := newInteractor(gen, transcript)
	ctx := context.Background()

	conv := uc.Start(ctx, "melody")
	out, err := uc.Send(ctx, conv, assistdto.SendInput{Prompt: "Client says: I want a refund"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if out.Failed || out.User.Text != "Client says: I want a refund" {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Assistant.Feedback == nil || out.Assistant.Feedback.Tone != "Frustrated" {
		t.Fatalf("expected feedback turn, got %+v", out.Assistant)
	}
	if diff := cmp.Diff([]string{"R1", "R2", "R3"}, out.Assistant.Replies); diff != "" {
		t.Fatalf("replies mismatch (-want +got):\n%s", diff)
	}
	if len(gen.calls) != 1 || gen.calls[0].Prompt != "Client says: I want a refund" {
		t.Fatalf("unexpected backend calls %+v", gen.calls)
	}

	var roles []domain.Role
	for _, e := range transcript.entries {
		roles = append(roles, e.Role)
	}
	want := []domain.Role{domain.RoleAssistant, domain.RoleUser, domain.RoleAssistant}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Fatalf("transcript roles mismatch (-want +got):\n%s", diff)
	}
	if transcript.entries[2].Seq != 2 || transcript.entries[2].Kind != domain.ContentFeedback {
		t.Fatalf("unexpected feedback entry %+v", transcript.entries[2])
	}
}

func TestSendBackendFailureAppendsErrorTurn(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{err: errors.New("HTTP error! status: 502")}
	uc := newInteractor(gen, &memoryTranscript{})
	ctx := context.Background()

	conv := uc.Start(ctx, "sakinah")
	out, err := uc.Send(ctx, conv, assistdto.SendInput{Prompt: "hello"})
	if err == nil || !out.Failed {
		t.Fatalf("expected failure to surface, got %+v %v", out, err)
	}
	if out.Assistant.Text != "Error: HTTP error! status: 502. Please ensure the backend server is running." {
		t.Fatalf("unexpected error turn %q", out.Assistant.Text)
	}
	if conv.InFlight() {
		t.Fatalf("conversation must accept new input after failure")
	}
}

func TestSendEmptyMakesNoBackendCall(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: refundReply()}
	uc := newInteractor(gen, &memoryTranscript{})
	ctx := context.Background()

	conv := uc.Start(ctx, "melody")
	if _, err := uc.Send(ctx, conv, assistdto.SendInput{Prompt: "  "}); !errors.Is(err, apperrors.ErrEmptySubmission) {
		t.Fatalf("expected empty submission, got %v", err)
	}
	if len(gen.calls) != 0 {
		t.Fatalf("empty submission must not reach the backend")
	}
}

func TestSendAttachmentsOnlyUsesFileNames(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: refundReply()}
	uc := newInteractor(gen, &memoryTranscript{})
	ctx := context.Background()

	conv := uc.Start(ctx, "melody")
	out, err := uc.Send(ctx, conv, assistdto.SendInput{Files: []string{"a.png", "b.png"}})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if out.User.Text != "a.png, b.png" {
		t.Fatalf("unexpected user text %q", out.User.Text)
	}
	if len(gen.calls[0].Attachments) != 2 {
		t.Fatalf("expected attachments forwarded, got %+v", gen.calls[0])
	}
}

func TestAttachRejectsBatchWhenAnyFileIsMissing(t *testing.T) {
	t.Parallel()
	uc := newInteractor(&fakeGenerator{}, &memoryTranscript{})
	ctx := context.Background()

	conv := uc.Start(ctx, "melody")
	if _, err := uc.Attach(ctx, conv, []string{"a.png", "missing.png"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(conv.Attachments()) != 0 {
		t.Fatalf("no attachment may be added from a failed batch")
	}
	if _, err := uc.Attach(ctx, conv, []string{"1", "2", "3", "4", "5", "6"}); !errors.Is(err, apperrors.ErrAttachmentLimit) {
		t.Fatalf("expected limit error, got %v", err)
	}
}

func TestAsyncCompletionAfterAbandonIsDropped(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: refundReply()}
	transcript := &memoryTranscript{}
	uc := newInteractor(gen, transcript)
	ctx := context.Background()

	conv := uc.Start(ctx, "melody")
	_ = conv.SetPrompt("hi")
	req, err := uc.Begin(ctx, conv)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	reply, err := uc.Dispatch(ctx, req)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	conv.Abandon()
	if _, ok := uc.Complete(ctx, conv, req.Generation, reply, nil); ok {
		t.Fatalf("stale completion must be dropped")
	}
	if len(transcript.entries) != 2 {
		t.Fatalf("stale completion must not be recorded, got %d entries", len(transcript.entries))
	}
}

func TestTranscriptFailureDoesNotBreakConversation(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: refundReply()}
	uc := newInteractor(gen, &memoryTranscript{err: errors.New("disk full")})
	ctx := context.Background()

	conv := uc.Start(ctx, "melody")
	if _, err := uc.Send(ctx, conv, assistdto.SendInput{Prompt: "hi"}); err != nil {
		t.Fatalf("transcript errors must not fail send: %v", err)
	}
	if len(conv.Turns()) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(conv.Turns()))
	}
}

func TestSelectReplyAndHistory(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{reply: refundReply()}
	uc := newInteractor(gen, &memoryTranscript{})
	ctx := context.Background()

	conv := uc.Start(ctx, "melody")
	if _, err := uc.Send(ctx, conv, assistdto.SendInput{Prompt: "hi"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	turn, err := uc.SelectReply(ctx, conv, 2)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if turn.Content.Text() != "Selected reply: R3" {
		t.Fatalf("unexpected selection %q", turn.Content.Text())
	}

	lines, err := uc.History(ctx, assistdto.HistoryInput{AgentID: "melody", Limit: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(lines) != 2 || lines[1].Body != "Selected reply: R3" || lines[0].Kind != "feedback" {
		t.Fatalf("unexpected history %+v", lines)
	}
}
