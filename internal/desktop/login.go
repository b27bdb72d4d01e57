package desktop

import (
	"errors"
	"fmt"

	"github.com/1broseidon/glassdesk/internal/session"
)

// SetLoginField edits one login form input.
func (d *Desktop) SetLoginField(field session.Field, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flow.SetField(field, value)
	d.notifyLocked()
}

// SetLoginForm replaces the login form inputs.
func (d *Desktop) SetLoginForm(form session.Form) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flow.SetForm(form)
	d.notifyLocked()
}

// SubmitLogin validates the form. On success it greets the user and starts
// the session-ready reveal. Field errors come back as
// *session.ValidationError and stay visible in the snapshot.
func (d *Desktop) SubmitLogin() (session.Login, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	login, err := d.flow.Submit()
	d.opts.Recorder.LoginSubmitted(err == nil)
	d.notifyLocked()
	if err != nil {
		return session.Login{}, err
	}
	d.opts.Recorder.PasswordGenerated()
	d.showToastLocked("Signed in: " + login.Username)
	d.revealSessionLocked()
	return login, nil
}

// revealSessionLocked types the session banner when the login window shows
// a signed-in session. The banner lives inside the window, so a closed
// window starts nothing and the next open picks it up.
func (d *Desktop) revealSessionLocked() {
	if !d.windows[Login].Open {
		return
	}
	if login, ok := d.flow.Login(); ok {
		d.startRevealLocked("Session ready for " + login.Website)
	}
}

// GeneratePassword derives a fresh password for the signed-in session.
func (d *Desktop) GeneratePassword() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pw, err := d.flow.Generate()
	if err != nil {
		return "", err
	}
	d.opts.Recorder.PasswordGenerated()
	if login, ok := d.flow.Login(); ok {
		d.showToastLocked("Password regenerated for " + login.Website)
	}
	d.notifyLocked()
	return pw, nil
}

// SwitchProfile signs out, keeping the last session's values in the form.
func (d *Desktop) SwitchProfile() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flow.State() != session.Authenticated {
		return session.ErrNotAuthenticated
	}
	d.flow.SwitchProfile()
	d.stopRevealLocked()
	d.notifyLocked()
	return nil
}

// Session copies the login flow state.
func (d *Desktop) Session() session.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flow.Snapshot()
}

// IsFieldError reports whether err carries per-field form errors.
func IsFieldError(err error) (session.FieldErrors, bool) {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

// ParseField wraps session.ParseField with an error.
func ParseField(s string) (session.Field, error) {
	f, ok := session.ParseField(s)
	if !ok {
		return "", fmt.Errorf("unknown field %q", s)
	}
	return f, nil
}
