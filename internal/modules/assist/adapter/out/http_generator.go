package out

import (
	"context"
	"fmt"
	"os"

	"cxassist/internal/modules/assist/domain"
	assistout "cxassist/internal/modules/assist/port/out"
	"cxassist/internal/platform/apiclient"
)

const generateReplyPath = "/generate_reply"

type generateReplyResponse struct {
	Feedback struct {
		Tone                  string   `json:"tone"`
		SolutionEffectiveness string   `json:"solutionEffectiveness"`
		Suggestions           []string `json:"suggestions"`
	} `json:"feedback"`
	Replies []string `json:"replies"`
}

type HTTPReplyGenerator struct {
	client *apiclient.Client
}

func NewHTTPReplyGenerator(client *apiclient.Client) assistout.ReplyGenerator {
	return &HTTPReplyGenerator{client: client}
}

func (g *HTTPReplyGenerator) Generate(ctx context.Context, req domain.Request) (domain.Reply, error) {
	fields := []apiclient.Field{
		{Name: "prompt", Value: req.Prompt},
		{Name: "context", Value: ""},
	}
	files := make([]apiclient.FilePart, 0, len(req.Attachments))
	for _, att := range req.Attachments {
		f, err := os.Open(att.Path)
		if err != nil {
			closeAll(files)
			return domain.Reply{}, fmt.Errorf("open attachment %s: %w", att.Name, err)
		}
		files = append(files, apiclient.FilePart{
			Field:       "files",
			FileName:    att.Name,
			ContentType: att.MediaType,
			Body:        f,
		})
	}
	defer closeAll(files)

	var resp generateReplyResponse
	if err := g.client.PostMultipart(ctx, generateReplyPath, fields, files, &resp); err != nil {
		return domain.Reply{}, err
	}
	return domain.Reply{
		Feedback: domain.Feedback{
			Tone:                  resp.Feedback.Tone,
			SolutionEffectiveness: resp.Feedback.SolutionEffectiveness,
			Suggestions:           resp.Feedback.Suggestions,
		},
		Replies: resp.Replies,
	}, nil
}

func closeAll(parts []apiclient.FilePart) {
	for _, p := range parts {
		if f, ok := p.Body.(*os.File); ok {
			_ = f.Close()
		}
	}
}
