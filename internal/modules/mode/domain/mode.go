package domain

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "cxassist/internal/platform/errors"
)

type Agent struct {
	ID   string
	Name string
}

// Roster builds display entries for the configured agent ids.
func Roster(ids []string) []Agent {
	agents := make([]Agent, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		agents = append(agents, Agent{ID: id, Name: DisplayName(id)})
	}
	return agents
}

// DisplayName upper-cases the first letter of an agent id, falling back to "Agent".
func DisplayName(id string) string {
	if id == "" {
		return "Agent"
	}
	r, size := utf8.DecodeRuneInString(id)
	return string(unicode.ToUpper(r)) + id[size:]
}

type Flow string

const (
	FlowAssist     Flow = "assist"
	FlowAssessment Flow = "assessment"
	FlowDashboard  Flow = "dashboard"
)

func (f Flow) NeedsAgent() bool {
	return f == FlowAssist || f == FlowAssessment
}

func ParseFlow(raw string) (Flow, error) {
	switch Flow(strings.ToLower(strings.TrimSpace(raw))) {
	case FlowAssist:
		return FlowAssist, nil
	case FlowAssessment:
		return FlowAssessment, nil
	case FlowDashboard:
		return FlowDashboard, nil
	}
	return "", fmt.Errorf("unknown flow %q: %w", raw, apperrors.ErrInvalidInput)
}

const (
	PathLogin      = "/login"
	PathModeSelect = "/"
	PathAssist     = "/assist"
	PathAssessment = "/assessment"
	PathDashboard  = "/assessment/dashboard"
)

// Route is one screen of the navigation surface.
type Route struct {
	Path  string
	Agent string
}

func Login() Route      { return Route{Path: PathLogin} }
func ModeSelect() Route { return Route{Path: PathModeSelect} }

// Protected reports whether the session gate must approve the route.
func (r Route) Protected() bool {
	return r.Path != PathLogin
}

func (r Route) String() string {
	if r.Agent != "" && (r.Path == PathAssist || r.Path == PathAssessment) {
		return r.Path + "?agent=" + url.QueryEscape(r.Agent)
	}
	return r.Path
}

// ParseRoute accepts the forms produced by Route.String.
func ParseRoute(raw string) (Route, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Route{}, fmt.Errorf("parse route %q: %w", raw, apperrors.ErrInvalidInput)
	}
	path := u.Path
	if path == "" {
		path = PathModeSelect
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	switch path {
	case PathLogin, PathModeSelect, PathDashboard:
		return Route{Path: path}, nil
	case PathAssist, PathAssessment:
		return Route{Path: path, Agent: u.Query().Get("agent")}, nil
	}
	return Route{}, fmt.Errorf("unknown route %q: %w", raw, apperrors.ErrInvalidInput)
}

// Select maps a mode-selector choice to its route.
func Select(agentID string, flow Flow) (Route, error) {
	agentID = strings.TrimSpace(agentID)
	if flow.NeedsAgent() && agentID == "" {
		return Route{}, fmt.Errorf("select an agent before choosing %s: %w", flow, apperrors.ErrInvalidInput)
	}
	switch flow {
	case FlowAssist:
		return Route{Path: PathAssist, Agent: agentID}, nil
	case FlowAssessment:
		return Route{Path: PathAssessment, Agent: agentID}, nil
	case FlowDashboard:
		return Route{Path: PathDashboard}, nil
	}
	return Route{}, fmt.Errorf("unknown flow %q: %w", flow, apperrors.ErrInvalidInput)
}
