package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"geoscale/internal/config"
	"geoscale/internal/geom"
)

// pointer is the mouse position over the map.
type pointer struct {
	over         bool
	cellX, cellY int
	dotX, dotY   int // highlighted vertex, in braille dots
	hasGeo       bool
	at           geom.Point
}

// Model is the bubbletea state of the viewer.
type Model struct {
	cfg config.Config
	log logrus.FieldLogger

	width  int
	height int

	showSidebar bool
	helpVisible bool

	// zoom multiplies the fitted scale; pan is in braille dots
	zoom float64
	panX int
	panY int

	status string

	// file sidebar
	cwd     string
	l       list.Model
	selPath string

	data    geom.Dataset
	bbox    geom.BBox
	hasBBox bool
	summary geom.Summary

	pasteMode bool
	ta        textarea.Model

	layers layers

	inspectPopup string
	ptr          pointer

	showAttrs bool
	tbl       table.Model
}

func New(cfg config.Config, log logrus.FieldLogger) Model {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := Model{
		cfg:         cfg,
		log:         log,
		helpVisible: true,
		zoom:        1.0,
		status:      "geoscale ready",
		layers:      layers{points: true, lines: true, polys: true},
	}
	m.cwd, _ = os.Getwd()
	m.l = newFileList()
	m.ta = newPasteArea()
	m.tbl = table.New(table.WithFocused(true), table.WithHeight(12))
	m.refreshDir()
	return m
}

func newFileList() list.Model {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	l := list.New(nil, d, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return l
}

func newPasteArea() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Paste WKT, 'WKT',SRID or a point set (x y,x y,...). Enter renders, Esc cancels."
	ta.CharLimit = 0
	ta.SetWidth(50)
	ta.SetHeight(6)
	return ta
}

// NewWithPath preloads a file's data at launch.
func NewWithPath(cfg config.Config, log logrus.FieldLogger, path string) Model {
	m := New(cfg, log)
	m.loadPath(path)
	return m
}

// NewWithDataset starts the viewer on data already in memory.
func NewWithDataset(cfg config.Config, log logrus.FieldLogger, d geom.Dataset) Model {
	m := New(cfg, log)
	m.setDataset(d)
	m.status = "loaded: " + d.Name + "  " + m.countsLabel()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// setDataset replaces the current data and resets the viewport.
func (m *Model) setDataset(d geom.Dataset) {
	m.data = d
	m.bbox, m.hasBBox = d.Bounds()
	m.summary = d.Summary()
	m.zoom = 1.0
	m.panX, m.panY = 0, 0
	m.inspectPopup = ""
	// polygons hide the other layers until toggled
	polys := m.summary.Polygons > 0
	m.layers = layers{
		points: m.summary.Points > 0 && !polys,
		lines:  m.summary.Lines > 0 && !polys,
		polys:  polys,
	}
	m.log.WithFields(logrus.Fields{
		"dataset":  d.Name,
		"features": len(d.Features),
		"points":   m.summary.Points,
		"lines":    m.summary.Lines,
		"polygons": m.summary.Polygons,
	}).Info("dataset loaded")
}
