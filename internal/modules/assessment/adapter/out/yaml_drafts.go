package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"cxassist/internal/modules/assessment/domain"
	assessmentout "cxassist/internal/modules/assessment/port/out"
	apperrors "cxassist/internal/platform/errors"
)

// YAMLDraftStore keeps drafts as a flat "scenario id: reply" mapping.
type YAMLDraftStore struct{}

func NewYAMLDraftStore() assessmentout.DraftStore {
	return YAMLDraftStore{}
}

func (YAMLDraftStore) Load(_ context.Context, path string) (map[int]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("drafts file %s: %w", path, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("read drafts: %w", err)
	}
	drafts := map[int]string{}
	if err := yaml.Unmarshal(raw, &drafts); err != nil {
		return nil, fmt.Errorf("parse drafts %s: %w: %w", path, apperrors.ErrInvalidInput, err)
	}
	return drafts, nil
}

// Save writes one entry per scenario, in scenario order, with the title and
// client message as a comment above each reply.
func (YAMLDraftStore) Save(_ context.Context, path string, scenarios []domain.Scenario, drafts map[int]string) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, sc := range scenarios {
		key := &yaml.Node{
			Kind:        yaml.ScalarNode,
			Tag:         "!!int",
			Value:       strconv.Itoa(sc.ID),
			HeadComment: draftComment(sc),
		}
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: drafts[sc.ID]}
		if strings.Contains(value.Value, "\n") {
			value.Style = yaml.LiteralStyle
		}
		doc.Content = append(doc.Content, key, value)
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode drafts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create drafts dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write drafts: %w", err)
	}
	return nil
}

func draftComment(sc domain.Scenario) string {
	lines := []string{"# " + sc.Title}
	for _, line := range strings.Split(strings.TrimSpace(sc.ClientMessage), "\n") {
		lines = append(lines, "# > "+line)
	}
	return strings.Join(lines, "\n")
}
