package tui

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"geoscale/internal/geom"
)

// fileItem is a sidebar entry: a loadable file or a directory to enter.
type fileItem struct {
	name string
	path string
	dir  bool
}

func (f fileItem) Title() string {
	if f.dir {
		return f.name + "/"
	}
	return f.name
}

func (f fileItem) Description() string {
	if f.dir {
		return "dir"
	}
	return strings.ToLower(filepath.Ext(f.name))
}

func (f fileItem) FilterValue() string { return f.name }

// dirItems lists the subdirectories and supported files of dir, directories
// first, with a parent entry unless dir is the filesystem root.
func dirItems(dir string) ([]fileItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var dirs, files []fileItem
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasPrefix(name, "."):
		case e.IsDir():
			dirs = append(dirs, fileItem{name: name, path: filepath.Join(dir, name), dir: true})
		case geom.Supported(name):
			files = append(files, fileItem{name: name, path: filepath.Join(dir, name)})
		}
	}
	byName := func(a, b fileItem) int { return cmp.Compare(a.name, b.name) }
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)
	if parent := filepath.Dir(dir); parent != dir {
		dirs = append([]fileItem{{name: "..", path: parent, dir: true}}, dirs...)
	}
	return append(dirs, files...), nil
}

func (m *Model) refreshDir() error {
	entries, err := dirItems(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		m.log.WithError(err).WithField("dir", m.cwd).Warn("cannot list directory")
		return err
	}
	items := make([]list.Item, len(entries))
	nfiles := 0
	for i, e := range entries {
		items[i] = e
		if !e.dir {
			nfiles++
		}
	}
	m.l.SetItems(items)
	m.l.Title = filepath.Base(m.cwd)
	if nfiles == 0 {
		m.status = "no supported files in " + m.cwd
	}
	return nil
}

// open enters a directory or loads a file picked in the sidebar.
func (m *Model) open(it fileItem) {
	if !it.dir {
		m.loadPath(it.path)
		return
	}
	prev := m.cwd
	m.cwd = it.path
	if err := m.refreshDir(); err != nil {
		m.cwd = prev
		return
	}
	m.l.ResetSelected()
}

// loadPath loads any supported format into the model.
func (m *Model) loadPath(p string) {
	d, err := geom.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		m.log.WithError(err).WithField("path", p).Error("load failed")
		return
	}
	m.selPath = p
	m.setDataset(d)
	m.status = "loaded: " + filepath.Base(p) + "  " + m.countsLabel()
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}
