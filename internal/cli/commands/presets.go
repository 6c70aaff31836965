package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"LightAdmin/internal/cli/api"
	"LightAdmin/internal/cli/model"
	"LightAdmin/internal/cli/repo"
	"LightAdmin/internal/cli/service"
	"LightAdmin/internal/config"
)

var errEmptyName = errors.New("preset name is required")

type presetsCmd struct{}

func (presetsCmd) Name() string        { return "presets" }
func (presetsCmd) Section() string     { return SectionPresets }
func (presetsCmd) Description() string { return "List presets, * marks the active one" }
func (presetsCmd) Usage() string       { return "presets [--offline]" }

func (presetsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
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

	list, at, err := service.Fetch(ctx, app.Catalog, repo.SnapshotPresets, *offline, app.API.Presets.List)
	if err != nil {
		return err
	}
	active := model.NoActivePreset
	if !*offline {
		if active, err = app.API.Presets.Active(ctx); err != nil {
			return err
		}
	}
	printFetched(at, *offline)
	printPresets(list, active)
	return nil
}

func printPresets(list []model.Preset, active int64) {
	if len(list) == 0 {
		fmt.Fprintln(Out, "No presets")
		return
	}
	tw := tabwriter.NewWriter(Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tNAME\tFAVORITE\tICON")
	for _, p := range list {
		mark := " "
		if p.ID == active {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%t\t%s\n", mark, p.ID, p.PresetName, p.Favorite, strOrDash(p.Icon))
	}
	_ = tw.Flush()
}

type presetAddCmd struct{}

func (presetAddCmd) Name() string        { return "preset-add" }
func (presetAddCmd) Section() string     { return SectionPresets }
func (presetAddCmd) Description() string { return "Save current light levels as a new preset" }
func (presetAddCmd) Usage() string       { return "preset-add <name> [--favorite] [--icon I]" }

func (presetAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("preset-add", flag.ContinueOnError)
	favorite := fs.Bool("favorite", false, "pin to favorites")
	icon := fs.String("icon", "", "icon name")
	rest, err := parseArgs(fs, args)
	if err != nil || len(rest) != 1 {
		return ErrUsage
	}
	name := strings.TrimSpace(rest[0])
	if name == "" {
		return errEmptyName
	}
	np := model.NewPreset{PresetName: name, Favorite: *favorite}
	if *icon != "" {
		np.Icon = icon
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	list, err := app.API.Presets.Create(ctx, np)
	if err != nil {
		return err
	}
	active, err := app.API.Presets.Active(ctx)
	if err != nil {
		return err
	}
	printPresets(list, active)
	return nil
}

type presetEditCmd struct{}

func (presetEditCmd) Name() string        { return "preset-edit" }
func (presetEditCmd) Section() string     { return SectionPresets }
func (presetEditCmd) Description() string { return "Rename a preset or change its favorite flag and icon" }
func (presetEditCmd) Usage() string {
	return "preset-edit <id> [--name N] [--favorite=true|false] [--icon I]"
}

func (presetEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("preset-edit", flag.ContinueOnError)
	name := fs.String("name", "", "new name")
	favorite := fs.Bool("favorite", false, "pin to favorites")
	icon := fs.String("icon", "", "icon name, empty clears")
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

	list, err := app.API.Presets.List(ctx)
	if err != nil {
		return err
	}
	var cur *model.Preset
	for i := range list {
		if list[i].ID == id {
			cur = &list[i]
			break
		}
	}
	if cur == nil {
		return fmt.Errorf("preset %d not found", id)
	}
	if set["name"] {
		n := strings.TrimSpace(*name)
		if n == "" {
			return errEmptyName
		}
		cur.PresetName = n
	}
	if set["favorite"] {
		cur.Favorite = *favorite
	}
	if set["icon"] {
		if *icon == "" {
			cur.Icon = nil
		} else {
			cur.Icon = icon
		}
	}

	updated, err := app.API.Presets.Update(ctx, *cur)
	if err != nil {
		return err
	}
	active, err := app.API.Presets.Active(ctx)
	if err != nil {
		return err
	}
	printPresets(updated, active)
	return nil
}

// presetIDCmd — команды вида "<verb> <id>" над пресетом.
type presetIDCmd struct {
	name, desc string
	run        func(ctx context.Context, presets *api.PresetsAPI, id int64) error
}

func (c presetIDCmd) Name() string        { return c.name }
func (presetIDCmd) Section() string       { return SectionPresets }
func (c presetIDCmd) Description() string { return c.desc }
func (c presetIDCmd) Usage() string       { return c.name + " <id>" }

func (c presetIDCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
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
	return c.run(ctx, app.API.Presets, id)
}

func init() {
	RegisterCmd(presetsCmd{})
	RegisterCmd(presetAddCmd{})
	RegisterCmd(presetEditCmd{})
	RegisterCmd(presetIDCmd{
		name: "preset-delete",
		desc: "Delete a preset",
		run: func(ctx context.Context, p *api.PresetsAPI, id int64) error {
			left, err := p.Delete(ctx, id)
			if err != nil {
				return err
			}
			active, err := p.Active(ctx)
			if err != nil {
				return err
			}
			printPresets(left, active)
			return nil
		},
	})
	RegisterCmd(presetIDCmd{
		name: "preset-activate",
		desc: "Apply a preset's levels to the lights",
		run: func(ctx context.Context, p *api.PresetsAPI, id int64) error {
			if err := p.Activate(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(Out, "Preset %d is active\n", id)
			return nil
		},
	})
	RegisterCmd(presetIDCmd{
		name: "preset-capture",
		desc: "Overwrite a preset with the current light levels",
		run: func(ctx context.Context, p *api.PresetsAPI, id int64) error {
			if err := p.Capture(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(Out, "Preset %d updated from current levels\n", id)
			return nil
		},
	})
}
