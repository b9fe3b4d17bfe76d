package domain

import "strings"

const SchemaVersion = 1

// Identity is the locally persisted login. There is no server-side session.
type Identity struct {
	Email string `json:"user_email"`
}

func (i Identity) Present() bool {
	return strings.TrimSpace(i.Email) != ""
}

// HasSuffix reports whether the identity belongs to the organisational domain.
// The match is case-sensitive, as the login form has always checked it.
func (i Identity) HasSuffix(suffix string) bool {
	if suffix == "" {
		return false
	}
	return strings.HasSuffix(strings.TrimSpace(i.Email), suffix)
}

type Verdict int

const (
	Allow Verdict = iota
	RedirectLogin
)

func (v Verdict) String() string {
	if v == Allow {
		return "allow"
	}
	return "redirect-login"
}

// Decision is the outcome of a gate check. Clear asks the caller to wipe the
// stored identity because it is present but outside the allowed domain.
type Decision struct {
	Verdict Verdict
	Clear   bool
}

// Evaluate applies the gate rule: a present identity with the required suffix is
// allowed, a present identity without it is rejected and cleared, and a missing
// identity is rejected without mutation.
func Evaluate(identity Identity, present bool, suffix string) Decision {
	if !present || !identity.Present() {
		return Decision{Verdict: RedirectLogin}
	}
	if !identity.HasSuffix(suffix) {
		return Decision{Verdict: RedirectLogin, Clear: true}
	}
	return Decision{Verdict: Allow}
}
