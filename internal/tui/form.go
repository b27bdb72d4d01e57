package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/glassdesk/internal/session"
)

const minFormWidth = 40

func formWidth(termWidth int) int {
	return max(min(termWidth-4, 72), minFormWidth)
}

// loginForm edits the three login fields. Shape checks are left to the
// desktop on submit so errors show the same way in every host.
type loginForm struct {
	form *huh.Form

	username string
	email    string
	website  string
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func newLoginForm(current session.Form, width int) *loginForm {
	f := &loginForm{
		username: current.Username,
		email:    current.Email,
		website:  current.Website,
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key(string(session.FieldUsername)).
				Title("Username").
				Description("At least 3 characters").
				Value(&f.username).
				Validate(required),
			huh.NewInput().
				Key(string(session.FieldEmail)).
				Title("Email").
				Placeholder("ada@example.com").
				Value(&f.email).
				Validate(required),
			huh.NewInput().
				Key(string(session.FieldWebsite)).
				Title("Website").
				Placeholder("example.com").
				Value(&f.website).
				Validate(required),
		),
	).WithWidth(width).WithShowHelp(true).WithShowErrors(true)
	return f
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}
	return cmd
}

func (f *loginForm) done() bool    { return f.form.State == huh.StateCompleted }
func (f *loginForm) aborted() bool { return f.form.State == huh.StateAborted }

func (f *loginForm) values() session.Form {
	return session.Form{Username: f.username, Email: f.email, Website: f.website}
}

func (f *loginForm) View() string {
	return f.form.View()
}
