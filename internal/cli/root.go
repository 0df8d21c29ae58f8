// Package cli holds the geoscale command tree.
package cli

import (
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"geoscale/internal/config"
)

type app struct {
	cfgPath  string
	cfg      config.Config
	log      *logrus.Logger
	closeLog func()

	// runProgram drives the interactive viewer.
	runProgram func(tea.Model) error
}

// NewRoot returns the root command.
func NewRoot() *cobra.Command {
	return newRoot(&app{runProgram: runTUI})
}

// Execute runs the command line.
func Execute() error {
	return NewRoot().Execute()
}

func newRoot(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "geoscale [path]",
		Short: "Bounding boxes, scaling and a terminal viewer for WKT geometry.",
		Long: `geoscale computes bounding boxes of "x y,x y" point sets, maps points
into device space with a linear scale and fits geometry into a target area.
Without a subcommand it opens the terminal viewer, optionally on a file
(GeoJSON, CSV, KML, WKT or shapefile).

Settings are read from the YAML file given with --config.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd, args)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.closeLog != nil {
				a.closeLog()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to a YAML configuration file")

	root.AddCommand(
		a.viewCmd(),
		a.bboxCmd(),
		a.scaleCmd(),
		a.wktCmd(),
		a.infoCmd(),
		a.queryCmd(),
	)
	return root
}

// setup loads the configuration and logger for cmd.
func (a *app) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, cmd.ErrOrStderr(), interactive)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closeLog = cfg, log, closeLog
	log.WithFields(logrus.Fields{
		"command": cmd.Name(),
		"config":  a.cfgPath,
	}).Debug("configuration loaded")
	return nil
}

func runTUI(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
