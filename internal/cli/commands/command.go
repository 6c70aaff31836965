package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"LightAdmin/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <login> <password>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// Help sections.
const (
	SectionSession  = "Session"
	SectionLighting = "Lighting"
	SectionPresets  = "Presets"
	sectionOther    = "Other"
)

var sectionOrder = []string{SectionSession, SectionLighting, SectionPresets, sectionOther}

// Sectioned is implemented by commands listed under a help section.
type Sectioned interface {
	Section() string
}

func sectionOf(c Command) string {
	if s, ok := c.(Sectioned); ok {
		return s.Section()
	}
	return sectionOther
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands, grouped by section.
func FormatGlobalUsage() string {
	lines := []string{
		"LightAdmin CLI",
		"",
		"Usage:",
		"  lacli [--base-url <host:port>] [--https] <command> [args]",
	}
	bySection := map[string][]Command{}
	for _, c := range List() {
		sec := sectionOf(c)
		bySection[sec] = append(bySection[sec], c)
	}
	for _, sec := range sectionOrder {
		cmds := bySection[sec]
		if len(cmds) == 0 {
			continue
		}
		lines = append(lines, "", sec+" commands:")
		for _, c := range cmds {
			lines = append(lines, fmt.Sprintf("  %-44s %s", c.Usage(), c.Description()))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
