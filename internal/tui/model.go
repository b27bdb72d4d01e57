package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/glassdesk/internal/catalog"
	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
	"github.com/1broseidon/glassdesk/internal/session"
	"github.com/1broseidon/glassdesk/internal/transfer"
)

// mousePointer is the pointer id of the terminal mouse.
const mousePointer = 1

// doubleClick is the longest gap between two presses on an icon that
// still opens it.
const doubleClick = 400 * time.Millisecond

// changedMsg tells the model the desktop state moved underneath it.
type changedMsg struct{}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// finderDrag is a drag of an app out of the Finder list. The desktop only
// sees it as a transfer once it is released.
type finderDrag struct {
	appID   string
	carrier *transfer.Carrier
	start   geometry.Point
	moved   bool
	effect  transfer.Effect
}

// iconClick remembers the last icon press for double-click detection.
type iconClick struct {
	id string
	at time.Time
}

// model is the root bubbletea model.
type model struct {
	desk  *desktop.Desktop
	grid  grid
	keys  keyMap
	help  help.Model
	clock func() time.Time

	width  int
	height int
	now    time.Time

	form      *loginForm
	drag      *finderDrag
	lastClick iconClick
	status    string
}

func newModel(desk *desktop.Desktop, cellW, cellH int) model {
	m := model{
		desk:  desk,
		grid:  newGrid(cellW, cellH),
		keys:  defaultKeyMap(),
		help:  help.New(),
		clock: time.Now,
	}
	m.now = m.clock()
	return m
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.desk.Resize(m.grid.canvasSize(msg.Width, msg.Height))
		if m.form != nil {
			m.form.form = m.form.form.WithWidth(formWidth(msg.Width))
		}
		return m, nil
	case changedMsg:
		return m, nil
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Finder):
		m.desk.MenuFinder()
	case key.Matches(msg, m.keys.Login):
		m.report(m.desk.OpenWindow(desktop.Login))
	case key.Matches(msg, m.keys.Edit):
		return m.startForm()
	case key.Matches(msg, m.keys.Open):
		if icon, ok := m.desk.ActiveIcon(); ok {
			_, err := m.desk.OpenIcon(icon.ID)
			m.report(err)
		}
	case key.Matches(msg, m.keys.Generate):
		_, err := m.desk.GeneratePassword()
		m.report(err)
	case key.Matches(msg, m.keys.Switch):
		m.report(m.desk.SwitchProfile())
	case key.Matches(msg, m.keys.Cancel):
		m.drag = nil
		m.desk.Pointer(pointer.Event{Kind: pointer.Cancel, PointerID: mousePointer})
	}
	return m, nil
}

func (m *model) report(err error) {
	if err != nil {
		m.status = err.Error()
	}
}

func buttonIndex(b tea.MouseButton) (int, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return pointer.Primary, true
	case tea.MouseButtonMiddle:
		return 1, true
	case tea.MouseButtonRight:
		return 2, true
	}
	return 0, false
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	client := m.grid.client(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		button, ok := buttonIndex(msg.Button)
		if !ok {
			return
		}
		m.status = ""
		m.press(msg.X, msg.Y, button, client)

	case tea.MouseActionMotion:
		if m.drag != nil {
			m.drag.moved = m.drag.moved || client != m.drag.start
			m.drag.effect = m.desk.DragOver(m.drag.carrier)
			return
		}
		m.desk.Pointer(pointer.Event{Kind: pointer.Move, PointerID: mousePointer, Client: client})

	case tea.MouseActionRelease:
		if m.drag != nil {
			m.releaseFinderDrag(client)
			return
		}
		m.desk.Pointer(pointer.Event{Kind: pointer.Up, PointerID: mousePointer, Client: client})
	}
}

func (m *model) press(col, row, button int, client geometry.Point) {
	switch {
	case row < menuRows:
		if col >= menuFinderStart && col < menuFinderEnd {
			m.desk.MenuFinder()
		}
		return
	case m.height > 0 && row == m.height-bottomRows:
		if app, ok := dockAt(dockSlots(m.desk.Catalog().Group(catalog.GroupDock)), col); ok {
			_, err := m.desk.OpenApp(app.ID, desktop.FromDock)
			m.report(err)
		}
		return
	case m.height > 0 && row > m.height-bottomRows:
		return
	}

	target := m.desk.HitTest(client)
	if button == pointer.Primary && target.Kind == pointer.SurfaceWindow &&
		target.ID == string(desktop.Finder) && target.Region == pointer.RegionPanelItem {
		m.pressFinder(client)
		return
	}

	m.desk.Pointer(pointer.Event{
		Kind:      pointer.Down,
		PointerID: mousePointer,
		Button:    button,
		Client:    client,
		Target:    target,
	})

	if target.Kind == pointer.SurfaceIcon && button == pointer.Primary {
		now := m.clock()
		if m.lastClick.id == target.ID && now.Sub(m.lastClick.at) <= doubleClick {
			// The press above started a drag; end it in place before launching.
			m.desk.Pointer(pointer.Event{Kind: pointer.Up, PointerID: mousePointer, Client: client})
			_, err := m.desk.OpenIcon(target.ID)
			m.report(err)
			m.lastClick = iconClick{}
			return
		}
		m.lastClick = iconClick{id: target.ID, at: now}
	}
}

func (m *model) pressFinder(client geometry.Point) {
	st := m.desk.Snapshot()
	finder, _ := st.Window(desktop.Finder)
	apps := m.desk.Catalog().Group(catalog.GroupFinder)
	hit, ok := m.grid.finderAt(finder, apps, client.Sub(st.Origin))
	if !ok {
		return
	}
	if hit.sidebar != "" {
		m.report(m.desk.SelectSidebar(hit.sidebar))
		return
	}
	m.drag = &finderDrag{
		appID:   hit.app,
		carrier: transfer.NewFinderCarrier(hit.app),
		start:   client,
	}
}

// releaseFinderDrag launches the app on a plain click and drops it on the
// desktop after a real drag.
func (m *model) releaseFinderDrag(client geometry.Point) {
	d := m.drag
	m.drag = nil
	if !d.moved && client == d.start {
		_, err := m.desk.OpenApp(d.appID, desktop.FromFinder)
		m.report(err)
		return
	}
	if _, err := m.desk.Drop(d.carrier, client); err != nil {
		slog.Debug("Finder drop rejected", "app", d.appID, "reason", desktop.RejectReason(err))
		m.status = "Drop rejected: " + desktop.RejectReason(err)
	}
}

func (m model) startForm() (tea.Model, tea.Cmd) {
	snap := m.desk.Session()
	if snap.State == session.Authenticated {
		m.status = "Signed in; press s to switch profile"
		return m, nil
	}
	m.report(m.desk.OpenWindow(desktop.Login))
	m.form = newLoginForm(snap.Form, formWidth(m.width))
	return m, m.form.form.Init()
}

func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.form = nil
			return m, nil
		}
	}

	cmd := m.form.update(msg)
	if m.form.done() {
		m.submitLogin(m.form.values())
		m.form = nil
		return m, nil
	}
	if m.form.aborted() {
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// submitLogin stores the form and submits it. Field errors stay on the
// desktop session and show in the login window.
func (m *model) submitLogin(f session.Form) {
	m.desk.SetLoginForm(f)
	if _, err := m.desk.SubmitLogin(); err != nil {
		if _, ok := desktop.IsFieldError(err); ok {
			m.status = "Check the login form (e to edit)"
			return
		}
		m.status = err.Error()
		return
	}
	m.status = ""
}
