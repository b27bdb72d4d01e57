package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/glassdesk/internal/catalog"
	"github.com/1broseidon/glassdesk/internal/credential"
	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/session"
)

// Menu bar columns of the clickable Finder entry.
const (
	menuFinderStart = 1
	menuFinderEnd   = 7
)

var (
	menuBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250"))

	menuFinderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	canvasStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dockStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("250"))

	dockActiveStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("15"))

	toastStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	formFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	st := m.desk.Snapshot()
	rows := max(m.height-menuRows-bottomRows, 0)

	var body string
	if m.form != nil {
		body = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center,
			formFrameStyle.Render("Sign in\n\n"+m.form.View()))
	} else {
		body = canvasStyle.Render(m.renderCanvas(st, rows))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderMenuBar(),
		body,
		m.renderDock(st),
		m.help.View(m.keys),
	)
}

func (m model) renderMenuBar() string {
	left := " " + menuFinderStyle.Render("Finder") + "  File  Edit  View  Go  Window  Help"
	right := m.now.Format("Mon Jan 2 15:04") + " "
	if m.status != "" {
		right = statusStyle.Render(m.status) + "  " + right
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return menuBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) renderDock(st desktop.State) string {
	apps := m.desk.Catalog().Group(catalog.GroupDock)
	var b strings.Builder
	b.WriteString(" ")
	for i, slot := range dockSlots(apps) {
		if i > 0 {
			b.WriteString(" ")
		}
		label := " " + slot.app.Name + " "
		if slot.app.ID == st.DockApp {
			label = dockActiveStyle.Render(label)
		}
		b.WriteString(label)
	}

	right := ""
	switch {
	case st.Toast != "":
		right = toastStyle.Render(st.Toast)
	case m.drag != nil && m.drag.moved:
		right = fmt.Sprintf("dragging %s (%s)", m.drag.appID, m.drag.effect)
	}
	line := b.String()
	gap := max(m.width-lipgloss.Width(line)-lipgloss.Width(right), 1)
	return dockStyle.Width(m.width).Render(line + strings.Repeat(" ", gap) + right)
}

func (m model) renderCanvas(st desktop.State, rows int) string {
	p := newPainter(m.width, rows)
	for _, icon := range st.Icons {
		m.paintIcon(p, st, icon)
	}
	for _, id := range desktop.Windows {
		w, ok := st.Window(id)
		if !ok || !w.Open {
			continue
		}
		switch id {
		case desktop.Finder:
			m.paintFinder(p, st, w)
		case desktop.Login:
			m.paintLogin(p, st, w)
		}
	}
	return p.String()
}

func (m model) paintIcon(p *painter, st desktop.State, icon desktop.Icon) {
	col, row := m.grid.toCell(icon.Position)
	width := m.grid.spanCells(st.Footprint.Width, m.grid.cw)
	name := icon.AppID
	if app, ok := m.desk.Catalog().Lookup(icon.AppID); ok {
		name = app.Name
	}
	glyph := "[" + session.AvatarLabel(name) + "]"
	if icon.ID == st.ActiveIcon {
		glyph = ">" + glyph + "<"
	}
	p.put(col+(width-len(glyph))/2, row+1, glyph)
	p.put(col+max((width-len([]rune(name)))/2, 0), row+2, truncate(name, width))
}

// paintWindow draws the frame and title row and returns the inner box.
func (m model) paintWindow(p *painter, w desktop.Window, title string) (col, row, width, height int) {
	col, row = m.grid.toCell(w.Position)
	width = m.grid.spanCells(w.Chrome.Size.Width, m.grid.cw)
	height = m.grid.spanCells(w.Chrome.Size.Height, m.grid.ch)
	p.box(col, row, width, height, "● ● ●  "+title)
	return col, row, width, height
}

func (m model) paintFinder(p *painter, st desktop.State, w desktop.Window) {
	col, row, width, height := m.paintWindow(p, w, "Finder")
	p.put(col+2, row+1, "Sidebar")
	p.put(col+sidebarCols+2, row+1, "Applications")

	for i, item := range sidebarItems() {
		if i >= height-3 {
			break
		}
		prefix := "  "
		if item == st.SidebarItem {
			prefix = "› "
		}
		p.put(col+1, row+2+i, truncate(prefix+item, sidebarCols-2))
	}
	for r := 1; r < height-1; r++ {
		p.put(col+sidebarCols-1, row+r, "│")
	}

	apps := m.desk.Catalog().Group(catalog.GroupFinder)
	for i, app := range apps {
		if i >= height-3 {
			break
		}
		prefix := "  "
		switch {
		case m.drag != nil && m.drag.appID == app.ID:
			prefix = "⇢ "
		case app.ID == st.FinderApp:
			prefix = "› "
		}
		line := fmt.Sprintf("%s%-10s %s", prefix, app.Name, app.Description)
		p.put(col+sidebarCols+1, row+2+i, truncate(line, width-sidebarCols-2))
	}
}

func (m model) paintLogin(p *painter, st desktop.State, w desktop.Window) {
	col, row, width, _ := m.paintWindow(p, w, "Password Manager")
	inner := width - 4
	put := func(r int, s string) {
		p.put(col+2, row+r, truncate(s, inner))
	}

	s := st.Session
	if s.Login == nil {
		put(2, "Username: "+s.Form.Username)
		put(3, "Email:    "+s.Form.Email)
		put(4, "Website:  "+s.Form.Website)
		r := 6
		for _, f := range session.Fields {
			if msg, ok := s.Errors[f]; ok {
				put(r, "! "+msg)
				r++
			}
		}
		put(r+1, "e: edit and sign in")
		return
	}

	put(2, fmt.Sprintf("(%s) %s", session.AvatarLabel(s.Login.Username), s.Login.Username))
	put(3, s.Login.Email)
	put(4, "Website:  "+s.Login.Website)
	put(6, "Password: "+s.Password)
	put(7, "Strength: "+strength(credential.Classify(s.Password)))
	if st.Reveal != "" {
		put(9, st.Reveal)
	}
	put(11, "g: new password   s: switch profile")
}

func strength(c credential.Coverage) string {
	mark := func(ok bool, label string) string {
		if ok {
			return label
		}
		return strings.Repeat("·", len(label))
	}
	return strings.Join([]string{
		mark(c.Upper, "A-Z"),
		mark(c.Lower, "a-z"),
		mark(c.Digit, "2-9"),
		mark(c.Symbol, "#"),
	}, " ")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// painter is a fixed-size rune grid. Writes outside it are clipped.
type painter struct {
	cols, rows int
	cells      [][]rune
}

func newPainter(cols, rows int) *painter {
	p := &painter{cols: max(cols, 0), rows: max(rows, 0)}
	p.cells = make([][]rune, p.rows)
	for i := range p.cells {
		p.cells[i] = []rune(strings.Repeat(" ", p.cols))
	}
	return p
}

func (p *painter) set(col, row int, r rune) {
	if row < 0 || row >= p.rows || col < 0 || col >= p.cols {
		return
	}
	p.cells[row][col] = r
}

func (p *painter) put(col, row int, s string) {
	for i, r := range []rune(s) {
		p.set(col+i, row, r)
	}
}

// box clears the area and draws a frame with title in the top edge.
func (p *painter) box(col, row, width, height int, title string) {
	if width < 2 || height < 2 {
		return
	}
	for r := row; r < row+height; r++ {
		for c := col; c < col+width; c++ {
			p.set(c, r, ' ')
		}
	}
	for c := col + 1; c < col+width-1; c++ {
		p.set(c, row, '─')
		p.set(c, row+height-1, '─')
	}
	for r := row + 1; r < row+height-1; r++ {
		p.set(col, r, '│')
		p.set(col+width-1, r, '│')
	}
	p.set(col, row, '┌')
	p.set(col+width-1, row, '┐')
	p.set(col, row+height-1, '└')
	p.set(col+width-1, row+height-1, '┘')
	p.put(col+2, row, truncate(" "+title+" ", width-4))
}

func (p *painter) String() string {
	lines := make([]string, len(p.cells))
	for i, row := range p.cells {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}
