package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"geoscale/internal/geom"
	"geoscale/internal/source"
	"geoscale/internal/tui"
)

func (a *app) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "view [path]",
		Short:             "Open the terminal viewer",
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE:              a.view,
	}
}

func (a *app) view(cmd *cobra.Command, args []string) error {
	if err := a.setup(cmd, true); err != nil {
		return err
	}
	if len(args) == 1 {
		return a.runProgram(tui.NewWithPath(a.cfg, a.log, args[0]))
	}
	return a.runProgram(tui.New(a.cfg, a.log))
}

func (a *app) bboxCmd() *cobra.Command {
	var existing []float64
	cmd := &cobra.Command{
		Use:   "bbox <point-set>",
		Short: "Compute the bounding box of a point set",
		Long: `bbox folds every point of an "x y,x y,..." point set into a bounding box,
optionally starting from --existing minX,minY,maxX,maxY.`,
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			var seed *geom.BBox
			if cmd.Flags().Changed("existing") {
				if len(existing) != 4 {
					return fmt.Errorf("--existing needs 4 values, got %d", len(existing))
				}
				seed = &geom.BBox{MinX: existing[0], MinY: existing[1], MaxX: existing[2], MaxY: existing[3]}
				if err := checkBox(*seed); err != nil {
					return err
				}
			}
			b, err := geom.ComputeBoundingBox(args[0], seed)
			if err != nil {
				return err
			}
			return writeJSON(cmd, b)
		},
	}
	cmd.Flags().Float64SliceVar(&existing, "existing", nil, "box to extend: minX,minY,maxX,maxY")
	return cmd
}

// checkBox rejects boxes that no set of points could produce.
func checkBox(b geom.BBox) error {
	lo, hi := geom.Point{X: b.MinX, Y: b.MinY}, geom.Point{X: b.MaxX, Y: b.MaxY}
	if !lo.Finite() || !hi.Finite() {
		return fmt.Errorf("--existing %v: coordinates must be finite", b)
	}
	if b.MinX > b.MaxX || b.MinY > b.MaxY {
		return fmt.Errorf("--existing %v: min exceeds max", b)
	}
	return nil
}

type scaleOutput struct {
	Points    []geom.Point `json:"points,omitempty"`
	Linear    []float64    `json:"linear,omitempty"`
	Recovered int          `json:"recovered"`
}

func (a *app) scaleCmd() *cobra.Command {
	var (
		s      geom.Scale
		linear bool
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "scale <point-set>",
		Short: "Map the points of a point set into device space",
		Long: `scale parses a point set, which may carry ring parentheses, and maps each
point through x' = (x - offset-x) * factor, y' = height - (y - offset-y) * factor.
Tokens with an empty coordinate are emitted as (0, 0) and counted in
"recovered".`,
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			sp := &s
			if raw {
				sp = nil
			}
			e, err := geom.ExtractScaled(args[0], sp)
			if err != nil {
				return err
			}
			if e.Recovered > 0 && a.cfg.WarnEmptyCoordinates {
				a.log.WithField("recovered", e.Recovered).Warn("point set had empty coordinates, emitted as (0, 0)")
			}
			out := scaleOutput{Recovered: e.Recovered}
			if linear {
				out.Linear = e.Linear()
			} else {
				out.Points = e.Points
			}
			return writeJSON(cmd, out)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&s.OffsetX, "offset-x", 0, "data x mapped to device x 0")
	f.Float64Var(&s.OffsetY, "offset-y", 0, "data y mapped to device y height")
	f.Float64Var(&s.Factor, "factor", 1, "device units per data unit")
	f.Float64Var(&s.Height, "height", 0, "device height used to flip the y axis")
	f.BoolVar(&linear, "linear", false, "print [x0, y0, x1, y1, ...] instead of points")
	f.BoolVar(&raw, "raw", false, "skip scaling and print parsed coordinates")
	return cmd
}

type wktOutput struct {
	Type    string       `json:"type"`
	SRID    int          `json:"srid"`
	WKT     string       `json:"wkt"`
	BBox    geom.BBox    `json:"bbox"`
	Summary geom.Summary `json:"summary"`
	Scale   *geom.Scale  `json:"scale,omitempty"`
	Device  *geom.BBox   `json:"device,omitempty"`
}

func (a *app) wktCmd() *cobra.Command {
	var width, height, border float64
	cmd := &cobra.Command{
		Use:   "wkt <value>",
		Short: "Describe a WKT value and fit it into a target area",
		Long: `wkt parses a geometry given as WKT or in the 'WKT',SRID column form and
prints its type, SRID, bounding box and primitive counts. With --width and
--height it also prints the scale fitting the geometry into that area.`,
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			v, err := geom.ParseValue(args[0])
			if err != nil {
				return err
			}
			g, err := v.Geometry()
			if err != nil {
				return err
			}
			b, ok := g.Bounds(nil)
			if !ok {
				return fmt.Errorf("wkt: %w", geom.ErrEmptyGeometry)
			}
			out := wktOutput{
				Type:    g.Type().String(),
				SRID:    v.SRID,
				WKT:     g.WKT(),
				BBox:    b,
				Summary: geom.Summarize(g),
			}
			if width > 0 && height > 0 {
				if !cmd.Flags().Changed("border") {
					border = float64(a.cfg.Border)
				}
				s := geom.FitScale(b, width, height, border)
				lo, hi := s.Apply(b.MinX, b.MaxY), s.Apply(b.MaxX, b.MinY)
				out.Scale = &s
				out.Device = &geom.BBox{MinX: lo.X, MinY: lo.Y, MaxX: hi.X, MaxY: hi.Y}
			}
			return writeJSON(cmd, out)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&width, "width", 0, "target width in device units")
	f.Float64Var(&height, "height", 0, "target height in device units")
	f.Float64Var(&border, "border", 0, "margin kept free (default from config)")
	return cmd
}

type datasetOutput struct {
	Name     string       `json:"name"`
	Features int          `json:"features"`
	Columns  []string     `json:"columns,omitempty"`
	BBox     *geom.BBox   `json:"bbox,omitempty"`
	Summary  geom.Summary `json:"summary"`
}

func describe(d geom.Dataset) datasetOutput {
	out := datasetOutput{
		Name:     d.Name,
		Features: len(d.Features),
		Columns:  d.Columns,
		Summary:  d.Summary(),
	}
	if b, ok := d.Bounds(); ok {
		out.BBox = &b
	}
	return out
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "info <path>",
		Short:             "Print the bounding box and feature counts of a file",
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			d, err := geom.Load(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, describe(d))
		},
	}
}

func (a *app) queryCmd() *cobra.Command {
	var (
		driver, dsn, table, column, label string
		limit                             int
		view                              bool
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Load a geometry column from a database",
		Long: `query reads a geometry column from SQLite (WKT text) or PostGIS and prints
the bounding box and feature counts, or opens the viewer with --view. The
source comes from the configuration file; flags override it.`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, view); err != nil {
				return err
			}
			sc := a.cfg.Source
			f := cmd.Flags()
			if f.Changed("driver") {
				sc.Driver = driver
			}
			if f.Changed("dsn") {
				sc.DSN = dsn
			}
			if f.Changed("table") {
				sc.Table = table
			}
			if f.Changed("column") {
				sc.Column = column
			}
			if f.Changed("label") {
				sc.Label = label
			}
			if f.Changed("limit") {
				sc.Limit = limit
			}

			ctx := cmd.Context()
			src, err := source.Open(ctx, sc, a.log)
			if err != nil {
				return err
			}
			defer src.Close()
			d, err := src.Load(ctx, source.QueryFromConfig(sc))
			if err != nil {
				return err
			}
			if view {
				return a.runProgram(tui.NewWithDataset(a.cfg, a.log, d))
			}
			return writeJSON(cmd, describe(d))
		},
	}
	f := cmd.Flags()
	f.StringVar(&driver, "driver", "", "sqlite or postgres")
	f.StringVar(&dsn, "dsn", "", "database file or connection URL")
	f.StringVar(&table, "table", "", "table holding the geometry")
	f.StringVar(&column, "column", "", "geometry column")
	f.StringVar(&label, "label", "", "column used as feature label")
	f.IntVar(&limit, "limit", 0, "maximum rows, 0 for all")
	f.BoolVar(&view, "view", false, "open the viewer on the result")
	return cmd
}
