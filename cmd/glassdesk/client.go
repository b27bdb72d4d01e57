package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/1broseidon/glassdesk/internal/credential"
	"github.com/1broseidon/glassdesk/internal/ipc"
	"github.com/1broseidon/glassdesk/internal/session"
)

// parseFlags parses args for a daemon command and returns false with the
// exit code when the command should stop.
func parseFlags(fs *flag.FlagSet, args []string, usage string, nargs int) (int, bool) {
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: glassdesk "+usage)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if nargs >= 0 && fs.NArg() != nargs {
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func fail(err error) int {
	var ferr *ipc.FieldError
	if errors.As(err, &ferr) {
		printFieldErrors(os.Stderr, ferr.Fields)
		return 1
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func printFieldErrors(w io.Writer, errs session.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "%s: %s\n", f, errs[session.Field(f)])
	}
}

func atoiArgs(args ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = n
	}
	return out, nil
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, "status", 0); !ok {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Daemon: running (uptime %s)\n", time.Duration(status.UptimeSeconds)*time.Second)
	fmt.Printf("Canvas: %dx%d\n", status.Canvas.Width, status.Canvas.Height)
	fmt.Printf("Open windows: %v\n", status.OpenWindows)
	fmt.Printf("Desktop icons: %d\n", status.IconCount)
	fmt.Printf("Session: %s\n", status.Session)
	return 0
}

func runState(args []string) int {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, "state", 0); !ok {
		return code
	}

	st, err := ipc.NewClient().GetState()
	if err != nil {
		return fail(err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fail(err)
	}
	fmt.Println(string(data))
	return 0
}

func runResize(args []string) int {
	fs := flag.NewFlagSet("resize", flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, "resize WIDTH HEIGHT", 2); !ok {
		return code
	}
	n, err := atoiArgs(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return fail(err)
	}

	size, err := ipc.NewClient().Resize(n[0], n[1])
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Canvas: %dx%d\n", size.Width, size.Height)
	return 0
}

func runWindow(cmd string, args []string) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, cmd+" <finder|login>", 1); !ok {
		return code
	}
	c := ipc.NewClient()
	id := fs.Arg(0)

	var err error
	switch cmd {
	case "open":
		err = c.OpenWindow(id)
	case "close":
		err = c.CloseWindow(id)
	case "center":
		pos, cerr := c.CenterWindow(id)
		if cerr != nil {
			return fail(cerr)
		}
		fmt.Printf("%s at (%d, %d)\n", id, pos.X, pos.Y)
		return 0
	}
	if err != nil {
		return fail(err)
	}
	return 0
}

func runLight(args []string) int {
	fs := flag.NewFlagSet("light", flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, "light <finder|login> <red|yellow|green>", 2); !ok {
		return code
	}
	if err := ipc.NewClient().TrafficLight(fs.Arg(0), fs.Arg(1)); err != nil {
		return fail(err)
	}
	return 0
}

func runLaunch(args []string) int {
	fs := flag.NewFlagSet("launch", flag.ContinueOnError)
	from := fs.String("from", "desktop", "Launch origin: finder, dock or desktop")
	if code, ok := parseFlags(fs, args, "launch [--from ORIGIN] <app-id>", 1); !ok {
		return code
	}

	app, err := ipc.NewClient().OpenApp(fs.Arg(0), *from)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%s: %s\n", app.Name, app.Description)
	return 0
}

func runDrop(args []string) int {
	fs := flag.NewFlagSet("drop", flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, "drop <app-id> X Y", 3); !ok {
		return code
	}
	n, err := atoiArgs(fs.Arg(1), fs.Arg(2))
	if err != nil {
		return fail(err)
	}

	icon, err := ipc.NewClient().Drop(fs.Arg(0), n[0], n[1])
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Icon %s (%s) at (%d, %d)\n", icon.ID, icon.AppID, icon.Position.X, icon.Position.Y)
	return 0
}

func runPointer(args []string) int {
	fs := flag.NewFlagSet("pointer", flag.ContinueOnError)
	id := fs.Int("id", 1, "Pointer id")
	button := fs.Int("button", 0, "Button index (0 is primary)")
	if code, ok := parseFlags(fs, args, "pointer [--id N] [--button N] <down|move|up|cancel> X Y", 3); !ok {
		return code
	}
	n, err := atoiArgs(fs.Arg(1), fs.Arg(2))
	if err != nil {
		return fail(err)
	}

	handled, err := ipc.NewClient().Pointer(ipc.PointerPayload{
		Kind:      fs.Arg(0),
		PointerID: *id,
		Button:    *button,
		X:         n[0],
		Y:         n[1],
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("handled: %v\n", handled)
	return 0
}

func runSidebar(args []string) int {
	fs := flag.NewFlagSet("sidebar", flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, "sidebar <item>", 1); !ok {
		return code
	}
	if err := ipc.NewClient().SelectSidebar(fs.Arg(0)); err != nil {
		return fail(err)
	}
	return 0
}

// loginFlags registers the three login fields on fs.
func loginFlags(fs *flag.FlagSet) *session.Form {
	var f session.Form
	fs.StringVar(&f.Username, "username", "", "Username (at least 3 characters)")
	fs.StringVar(&f.Email, "email", "", "Email address")
	fs.StringVar(&f.Website, "website", "", "Website or hostname")
	return &f
}

func runLogin(args []string) int {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	form := loginFlags(fs)
	if code, ok := parseFlags(fs, args, "login --username U --email E --website W", 0); !ok {
		return code
	}

	data, err := ipc.NewClient().SubmitLogin(ipc.LoginPayload{
		Username: form.Username,
		Email:    form.Email,
		Website:  form.Website,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Signed in as %s <%s> for %s\n", data.Login.Username, data.Login.Email, data.Login.Website)
	fmt.Println(data.Password)
	return 0
}

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, "generate", 0); !ok {
		return code
	}
	pw, err := ipc.NewClient().GeneratePassword()
	if err != nil {
		return fail(err)
	}
	fmt.Println(pw)
	return 0
}

func runSwitchProfile(args []string) int {
	fs := flag.NewFlagSet("switch-profile", flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, "switch-profile", 0); !ok {
		return code
	}
	if err := ipc.NewClient().SwitchProfile(); err != nil {
		return fail(err)
	}
	return 0
}

// runPassword derives a password without a daemon. The same identity and
// --at always give the same password.
func runPassword(args []string, w io.Writer) int {
	fs := flag.NewFlagSet("password", flag.ContinueOnError)
	form := loginFlags(fs)
	at := fs.Int64("at", 0, "Unix milliseconds to derive at (default: now)")
	if code, ok := parseFlags(fs, args, "password --username U --email E --website W [--at MILLIS]", 0); !ok {
		return code
	}

	login, errs := session.Validate(*form)
	if !errs.Empty() {
		printFieldErrors(os.Stderr, errs)
		return 1
	}
	millis := *at
	if millis == 0 {
		millis = time.Now().UnixMilli()
	}
	fmt.Fprintln(w, credential.Derive(login.Identity(), millis))
	return 0
}
