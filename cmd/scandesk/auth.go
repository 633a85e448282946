package main

import (
	"context"
)

// terminalAuthenticator stands in for the platform biometric service when
// running from a terminal: it asks the user to confirm interactively.
type terminalAuthenticator struct {
	u *ui
}

func newTerminalAuthenticator(u *ui) *terminalAuthenticator {
	return &terminalAuthenticator{u: u}
}

func (t *terminalAuthenticator) Available() bool {
	return true
}

func (t *terminalAuthenticator) Authenticate(ctx context.Context, reason string) (bool, error) {
	return t.u.Confirm("Authentication required to " + reason + ". Confirm?"), nil
}
