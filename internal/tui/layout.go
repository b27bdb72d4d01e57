package tui

import (
	"github.com/1broseidon/glassdesk/internal/catalog"
	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
)

// Screen rows outside the canvas: the menu bar on top, the dock and the
// help line at the bottom.
const (
	menuRows   = 1
	bottomRows = 2
)

// sidebarCols is the width of the Finder sidebar column in cells.
const sidebarCols = 16

// grid maps terminal cells to canvas pixels.
type grid struct {
	cw, ch int
}

func newGrid(cellW, cellH int) grid {
	return grid{cw: max(cellW, 1), ch: max(cellH, 1)}
}

// origin is the client position of the canvas top-left.
func (g grid) origin() geometry.Point {
	return geometry.Point{X: 0, Y: menuRows * g.ch}
}

// canvasSize is the pixel size of the canvas for a terminal of cols x rows.
func (g grid) canvasSize(cols, rows int) geometry.Size {
	return geometry.Size{
		Width:  max(cols, 0) * g.cw,
		Height: max(rows-menuRows-bottomRows, 0) * g.ch,
	}
}

// client samples the center of a screen cell so a surface drawn on that
// cell also contains the point.
func (g grid) client(col, row int) geometry.Point {
	return geometry.Point{X: col*g.cw + g.cw/2, Y: row*g.ch + g.ch/2}
}

// toCell rounds a canvas position to the nearest cell.
func (g grid) toCell(p geometry.Point) (col, row int) {
	return (p.X + g.cw/2) / g.cw, (p.Y + g.ch/2) / g.ch
}

// spanCells is how many cells a pixel length covers, at least one.
func (g grid) spanCells(px, cell int) int {
	return max((px+cell/2)/cell, 1)
}

// sidebarItems flattens the Finder sidebar groups.
func sidebarItems() []string {
	var out []string
	for _, g := range desktop.Sidebar {
		out = append(out, g.Items...)
	}
	return out
}

// finderHit is what a canvas point selects inside the Finder body.
type finderHit struct {
	sidebar string
	app     string
}

// finderAt resolves local (canvas coordinates) against the Finder rows
// drawn by renderFinder: one title row, one blank row, then items.
func (g grid) finderAt(w desktop.Window, apps []catalog.App, local geometry.Point) (finderHit, bool) {
	col0, row0 := g.toCell(w.Position)
	col, row := local.X/g.cw, local.Y/g.ch
	idx := row - row0 - 2
	if idx < 0 {
		return finderHit{}, false
	}
	if col-col0 < sidebarCols {
		items := sidebarItems()
		if idx < len(items) {
			return finderHit{sidebar: items[idx]}, true
		}
		return finderHit{}, false
	}
	if idx < len(apps) {
		return finderHit{app: apps[idx].ID}, true
	}
	return finderHit{}, false
}

// dockSlot is the column span of one dock label.
type dockSlot struct {
	app        catalog.App
	start, end int
}

func dockSlots(apps []catalog.App) []dockSlot {
	slots := make([]dockSlot, 0, len(apps))
	col := 1
	for _, app := range apps {
		width := len([]rune(app.Name)) + 2
		slots = append(slots, dockSlot{app: app, start: col, end: col + width})
		col += width + 1
	}
	return slots
}

func dockAt(slots []dockSlot, col int) (catalog.App, bool) {
	for _, s := range slots {
		if col >= s.start && col < s.end {
			return s.app, true
		}
	}
	return catalog.App{}, false
}
