// Package session implements the login form and the handoff to the
// password generator panel.
package session

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/glassdesk/internal/credential"
)

// ErrNotAuthenticated is returned by operations that need a login session.
var ErrNotAuthenticated = errors.New("no login session")

// State is the form flow phase.
type State int

const (
	// Anonymous shows the login form.
	Anonymous State = iota
	// Authenticated shows the generator panel for a login session.
	Authenticated
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Login is a validated, normalized session identity.
type Login struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Website  string `json:"website"`
}

// Identity converts the session for the credential generator.
func (l Login) Identity() credential.Identity {
	return credential.Identity{Username: l.Username, Email: l.Email, Website: l.Website}
}

// Generator derives passwords for a login.
type Generator interface {
	Generate(id credential.Identity) string
}

// Snapshot is a copy of the flow state for display.
type Snapshot struct {
	State    State       `json:"-"`
	Phase    string      `json:"state"`
	Form     Form        `json:"form"`
	Errors   FieldErrors `json:"errors,omitempty"`
	Login    *Login      `json:"login,omitempty"`
	Password string      `json:"password,omitempty"`
	// CanSubmit mirrors the submit button: every field must be non-blank.
	CanSubmit bool `json:"can_submit"`
}

// Flow is the Anonymous -> Authenticated -> Anonymous state machine.
// It is not safe for concurrent use; the desktop serializes access.
type Flow struct {
	gen      Generator
	form     Form
	errors   FieldErrors
	login    *Login
	password string
}

// NewFlow returns an anonymous flow with an empty form.
func NewFlow(gen Generator) *Flow {
	if gen == nil {
		gen = credential.NewGenerator(nil)
	}
	return &Flow{gen: gen, errors: FieldErrors{}}
}

// State returns the current phase.
func (f *Flow) State() State {
	if f.login != nil {
		return Authenticated
	}
	return Anonymous
}

// Form returns the current form values.
func (f *Flow) Form() Form {
	return f.form
}

// Errors returns a copy of the field errors.
func (f *Flow) Errors() FieldErrors {
	return f.errors.clone()
}

// Login returns the active session, if any.
func (f *Flow) Login() (Login, bool) {
	if f.login == nil {
		return Login{}, false
	}
	return *f.login, true
}

// Password returns the last generated password, empty when anonymous.
func (f *Flow) Password() string {
	return f.password
}

// SetField updates one input and clears that field's error.
func (f *Flow) SetField(field Field, value string) {
	f.form = f.form.With(field, value)
	delete(f.errors, field)
}

// SetForm replaces every input, clearing errors of fields whose value changed.
func (f *Flow) SetForm(form Form) {
	for _, field := range Fields {
		if form.Get(field) != f.form.Get(field) {
			f.SetField(field, form.Get(field))
		}
	}
}

// CanSubmit reports whether the submit action is enabled.
func (f *Flow) CanSubmit() bool {
	return f.form.Complete()
}

// Submit validates the form. On success the normalized values replace the
// form, a session is created and an initial password generated.
func (f *Flow) Submit() (Login, error) {
	login, errs := Validate(f.form)
	if !errs.Empty() {
		f.errors = errs
		slog.Debug("Login rejected", "fields", len(errs))
		return Login{}, &ValidationError{Fields: errs.clone()}
	}

	f.form = Form{Username: login.Username, Email: login.Email, Website: login.Website}
	f.errors = FieldErrors{}
	f.login = &login
	f.password = f.gen.Generate(login.Identity())
	slog.Debug("Login accepted", "website", login.Website)
	return login, nil
}

// Generate derives a new password for the active session.
func (f *Flow) Generate() (string, error) {
	if f.login == nil {
		return "", ErrNotAuthenticated
	}
	f.password = f.gen.Generate(f.login.Identity())
	return f.password, nil
}

// SwitchProfile drops the session and password and returns to the form,
// seeded with the last session's values.
func (f *Flow) SwitchProfile() {
	if f.login != nil {
		f.form = Form{Username: f.login.Username, Email: f.login.Email, Website: f.login.Website}
	}
	f.errors = FieldErrors{}
	f.login = nil
	f.password = ""
}

// Snapshot copies the flow state.
func (f *Flow) Snapshot() Snapshot {
	s := Snapshot{
		State:     f.State(),
		Phase:     f.State().String(),
		Form:      f.form,
		Errors:    f.errors.clone(),
		Password:  f.password,
		CanSubmit: f.CanSubmit(),
	}
	if f.login != nil {
		login := *f.login
		s.Login = &login
	}
	return s
}
