package out_test

import (
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	out "cxassist/internal/modules/assist/adapter/out"
	"cxassist/internal/modules/assist/domain"
	"cxassist/internal/platform/apiclient"
	apperrors "cxassist/internal/platform/errors"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestHTTPReplyGeneratorSendsMultipartForm(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	img := writePNG(t, dir, "chat.png", 4, 3)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate_reply" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		if got := r.FormValue("prompt"); got != "Client says: I want a refund" {
			t.Errorf("unexpected prompt %q", got)
		}
		if vals, ok := r.MultipartForm.Value["context"]; !ok || vals[0] != "" {
			t.Errorf("context field must be present and empty, got %v", vals)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 1 || files[0].Filename != "chat.png" {
			t.Errorf("unexpected files %+v", files)
		}
		_, _ = io.WriteString(w, `{"feedback":{"tone":"Frustrated","solutionEffectiveness":"Low","suggestions":["Apologize"]},"replies":["R1","R2","R3"]}`)
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL+"/api", time.Second, nil, apiclient.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	gen := out.NewHTTPReplyGenerator(client)
	reply, err := gen.Generate(context.Background(), domain.Request{
		Generation:  1,
		Prompt:      "Client says: I want a refund",
		Attachments: []domain.Attachment{{Path: img, Name: "chat.png", MediaType: "image/png"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if reply.Feedback.Tone != "Frustrated" || len(reply.Replies) != 3 || reply.Feedback.Suggestions[0] != "Apologize" {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestHTTPReplyGeneratorMissingAttachment(t *testing.T) {
	t.Parallel()
	client, err := apiclient.New("http://127.0.0.1:1/api", time.Second, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	_, err = out.NewHTTPReplyGenerator(client).Generate(context.Background(), domain.Request{
		Prompt:      "x",
		Attachments: []domain.Attachment{{Path: filepath.Join(t.TempDir(), "gone.png"), Name: "gone.png"}},
	})
	if err == nil {
		t.Fatalf("expected error for missing attachment")
	}
}

func TestLocalAttachmentInspectorDescribesImages(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	img := writePNG(t, dir, "shot.png", 8, 6)
	txt := filepath.Join(dir, "notes")
	if err := os.WriteFile(txt, []byte("plain text body"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	inspector := out.NewLocalAttachmentInspector()
	att, err := inspector.Inspect(context.Background(), img)
	if err != nil {
		t.Fatalf("inspect image: %v", err)
	}
	if att.Name != "shot.png" || att.MediaType != "image/png" || att.Preview != "png 8x6" {
		t.Fatalf("unexpected image attachment %+v", att)
	}

	att, err = inspector.Inspect(context.Background(), txt)
	if err != nil {
		t.Fatalf("inspect text: %v", err)
	}
	if att.IsImage() || att.Preview != "" {
		t.Fatalf("text file must not be treated as image: %+v", att)
	}

	_, err = inspector.Inspect(context.Background(), filepath.Join(dir, "missing.png"))
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := inspector.Inspect(context.Background(), dir); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected directory rejection, got %v", err)
	}
}

func TestSQLiteTranscriptStoreListsNewestInOrder(t *testing.T) {
	t.Parallel()
	store, err := out.NewSQLiteTranscriptStore(filepath.Join(t.TempDir(), "db", "cxassist.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []domain.TranscriptEntry{
		{ConversationID: "c1", AgentID: "melody", Seq: 0, Role: domain.RoleAssistant, Kind: domain.ContentText, Body: "hello", At: base},
		{ConversationID: "c1", AgentID: "melody", Seq: 1, Role: domain.RoleUser, Kind: domain.ContentText, Body: "refund?", At: base.Add(time.Second)},
		{ConversationID: "c1", AgentID: "melody", Seq: 2, Role: domain.RoleAssistant, Kind: domain.ContentFeedback, Body: "Tone: calm", At: base.Add(1500 * time.Millisecond)},
		{ConversationID: "c2", AgentID: "syahir", Seq: 0, Role: domain.RoleAssistant, Kind: domain.ContentText, Body: "hello", At: base.Add(3 * time.Second)},
	}
	for _, e := range entries {
		if err := store.Append(context.Background(), e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.List(context.Background(), "melody", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Seq != 1 || got[1].Seq != 2 {
		t.Fatalf("expected the two newest melody turns in order, got %+v", got)
	}
	if got[1].Kind != domain.ContentFeedback || !got[1].At.Equal(base.Add(1500*time.Millisecond)) {
		t.Fatalf("unexpected feedback entry %+v", got[1])
	}

	all, err := store.List(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 || all[3].AgentID != "syahir" {
		t.Fatalf("unexpected full listing %+v", all)
	}
}
