package commands

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"LightAdmin/internal/cli/model"
	"LightAdmin/internal/cli/repo"
	"LightAdmin/internal/cli/service"
	"LightAdmin/internal/config"
)

type devicesCmd struct{}

func (devicesCmd) Name() string        { return "devices" }
func (devicesCmd) Section() string     { return SectionLighting }
func (devicesCmd) Description() string { return "List controllers (--scan rediscovers the bus)" }
func (devicesCmd) Usage() string       { return "devices [--scan] [--offline]" }

func (devicesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("devices", flag.ContinueOnError)
	scan := fs.Bool("scan", false, "rediscover devices")
	offline := fs.Bool("offline", false, "show the cached list")
	rest, err := parseArgs(fs, args)
	if err != nil || len(rest) != 0 || (*scan && *offline) {
		return ErrUsage
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	load := app.API.Devices.List
	if *scan {
		load = app.API.Devices.Scan
	}
	devs, at, err := service.Fetch(ctx, app.Catalog, repo.SnapshotDevices, *offline, load)
	if err != nil {
		return err
	}
	printFetched(at, *offline)
	if len(devs) == 0 {
		fmt.Fprintln(Out, "No devices")
		return nil
	}
	tw := tabwriter.NewWriter(Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tADDRESS\tENDPOINTS")
	for _, d := range devs {
		fmt.Fprintf(tw, "%d\t0x%02x\t%d\n", d.ID, d.Adr, d.EndpointCount)
	}
	return tw.Flush()
}

type pointsCmd struct{}

func (pointsCmd) Name() string        { return "points" }
func (pointsCmd) Section() string     { return SectionLighting }
func (pointsCmd) Description() string { return "List light points" }
func (pointsCmd) Usage() string       { return "points [--offline]" }

func (pointsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("points", flag.ContinueOnError)
	offline := fs.Bool("offline", false, "show the cached list")
	rest, err := parseArgs(fs, args)
	if err != nil || len(rest) != 0 {
		return ErrUsage
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	pts, at, err := service.Fetch(ctx, app.Catalog, repo.SnapshotPoints, *offline, app.API.Points.List)
	if err != nil {
		return err
	}
	printFetched(at, *offline)
	printPoints(pts)
	return nil
}

func printPoints(pts []model.Point) {
	if len(pts) == 0 {
		fmt.Fprintln(Out, "No points")
		return
	}
	tw := tabwriter.NewWriter(Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDEVICE\tPOS\tVAL\tACTIVE\tX\tY\tW\tH\tROT\tWATTS\tTAG")
	for _, p := range pts {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%t\t%g\t%g\t%g\t%g\t%g\t%g\t%s\n",
			p.ID, p.DeviceID, p.DevicePosition, p.Val, p.Active,
			p.X, p.Y, p.Width, p.Height, p.Rotation, p.Watts, strOrDash(p.Tag))
	}
	_ = tw.Flush()
}

type pointSetCmd struct{}

func (pointSetCmd) Name() string        { return "point-set" }
func (pointSetCmd) Section() string     { return SectionLighting }
func (pointSetCmd) Description() string { return "Change level, geometry or tag of a point" }
func (pointSetCmd) Usage() string {
	return "point-set <id> [--val N] [--active] [--tag T] [--x X] [--y Y] [--width W] [--height H] [--rotation R] [--watts W]"
}

func (pointSetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("point-set", flag.ContinueOnError)
	val := fs.Int("val", 0, "level 0..65535")
	active := fs.Bool("active", false, "point is installed")
	tag := fs.String("tag", "", "label, empty clears")
	x := fs.Float64("x", 0, "x")
	y := fs.Float64("y", 0, "y")
	width := fs.Float64("width", 0, "width")
	height := fs.Float64("height", 0, "height")
	rotation := fs.Float64("rotation", 0, "rotation 0..360")
	watts := fs.Float64("watts", 0, "power")
	rest, err := parseArgs(fs, args)
	if err != nil || len(rest) != 1 {
		return ErrUsage
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}
	set := setFlags(fs)
	if len(set) == 0 {
		return ErrUsage
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	pts, err := app.API.Points.List(ctx)
	if err != nil {
		return err
	}
	var p *model.Point
	for i := range pts {
		if pts[i].ID == id {
			p = &pts[i]
			break
		}
	}
	if p == nil {
		return fmt.Errorf("point %d not found", id)
	}
	if set["val"] {
		p.Val = *val
	}
	if set["active"] {
		p.Active = *active
	}
	if set["tag"] {
		if *tag == "" {
			p.Tag = nil
		} else {
			p.Tag = tag
		}
	}
	geometry := []struct {
		name string
		src  *float64
		dst  *float32
	}{
		{"x", x, &p.X}, {"y", y, &p.Y},
		{"width", width, &p.Width}, {"height", height, &p.Height},
		{"rotation", rotation, &p.Rotation}, {"watts", watts, &p.Watts},
	}
	for _, g := range geometry {
		if set[g.name] {
			*g.dst = float32(*g.src)
		}
	}

	updated, err := app.API.Points.Update(ctx, []model.Point{*p})
	if err != nil {
		return err
	}
	printPoints(updated)
	return nil
}

type identifyCmd struct{}

func (identifyCmd) Name() string        { return "identify" }
func (identifyCmd) Section() string     { return SectionLighting }
func (identifyCmd) Description() string { return "Blink a point to find it" }
func (identifyCmd) Usage() string       { return "identify <id>" }

func (identifyCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.API.Points.Identify(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Point %d is blinking\n", id)
	return nil
}

func init() {
	RegisterCmd(devicesCmd{})
	RegisterCmd(pointsCmd{})
	RegisterCmd(pointSetCmd{})
	RegisterCmd(identifyCmd{})
}
