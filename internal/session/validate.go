package session

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// Field names a login form input.
type Field string

const (
	FieldUsername Field = "username"
	FieldEmail    Field = "email"
	FieldWebsite  Field = "website"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldUsername, FieldEmail, FieldWebsite}

// ParseField maps a field name to a Field.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == strings.ToLower(strings.TrimSpace(s)) {
			return f, true
		}
	}
	return "", false
}

const minUsernameLength = 3

const (
	msgUsername = "Username must be at least 3 characters."
	msgEmail    = "Invalid email address."
	msgWebsite  = "Invalid website (e.g. github.com)."
)

var emailPattern = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// Form holds the raw input values.
type Form struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Website  string `json:"website"`
}

// Get returns the value of f.
func (f Form) Get(field Field) string {
	switch field {
	case FieldUsername:
		return f.Username
	case FieldEmail:
		return f.Email
	case FieldWebsite:
		return f.Website
	}
	return ""
}

// With returns a copy of f with field set to value.
func (f Form) With(field Field, value string) Form {
	switch field {
	case FieldUsername:
		f.Username = value
	case FieldEmail:
		f.Email = value
	case FieldWebsite:
		f.Website = value
	}
	return f
}

// Complete reports whether every field has a non-blank value.
func (f Form) Complete() bool {
	for _, field := range Fields {
		if strings.TrimSpace(f.Get(field)) == "" {
			return false
		}
	}
	return true
}

// FieldErrors maps fields to their messages. A missing key means valid.
type FieldErrors map[Field]string

// Empty reports whether no field has an error.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// First returns the first message in display order.
func (e FieldErrors) First() string {
	for _, f := range Fields {
		if msg, ok := e[f]; ok {
			return msg
		}
	}
	return ""
}

func (e FieldErrors) clone() FieldErrors {
	if len(e) == 0 {
		return nil
	}
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ValidationError is returned by Submit when any field is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	if e == nil || e.Fields.Empty() {
		return "login form is invalid"
	}
	return "login form is invalid: " + e.Fields.First()
}

// Validate checks f and returns the normalized login on success.
func Validate(f Form) (Login, FieldErrors) {
	errs := FieldErrors{}

	username := strings.TrimSpace(f.Username)
	if utf8.RuneCountInString(username) < minUsernameLength {
		errs[FieldUsername] = msgUsername
	}

	email, ok := NormalizeEmail(f.Email)
	if !ok {
		errs[FieldEmail] = msgEmail
	}

	website, ok := NormalizeWebsite(f.Website)
	if !ok {
		errs[FieldWebsite] = msgWebsite
	}

	if !errs.Empty() {
		return Login{}, errs
	}
	return Login{Username: username, Email: email, Website: website}, nil
}

// NormalizeEmail trims and lower-cases an address and checks its shape.
func NormalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(email) {
		return "", false
	}
	return email, true
}

// NormalizeWebsite reduces user input to a bare hostname: scheme, path,
// port and a leading "www." are dropped, and the host must contain a dot.
func NormalizeWebsite(raw string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", false
	}
	if !strings.Contains(value, "://") {
		value = "https://" + value
	}

	u, err := url.Parse(value)
	if err != nil {
		return "", false
	}
	host := u.Hostname()
	if host == "" {
		return "", false
	}
	host, err = idna.Lookup.ToASCII(host)
	if err != nil {
		return "", false
	}
	host = strings.TrimPrefix(host, "www.")
	if !strings.Contains(host, ".") || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return "", false
	}
	return host, true
}

// AvatarLabel is the single upper-case letter shown for a username.
func AvatarLabel(username string) string {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return strings.ToUpper(string(r))
}
