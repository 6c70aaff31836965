package commands

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"LightAdmin/internal/cli/bootstrap"
	"LightAdmin/internal/config"
)

// In — источник ввода для подсказок (пароль без терминала). В тестах переназначается.
var In io.Reader = os.Stdin

// openApp собирает зависимости команды и подписывает вывод подсказки о повторном входе.
func openApp(cfg *config.Config) (*bootstrap.App, error) {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, err
	}
	app.WatchAuth(Out)
	return app, nil
}

// parseArgs разбирает флаги вперемешку с позиционными аргументами.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, ErrUsage
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUsage
	}
	return id, nil
}

// setFlags возвращает имена явно заданных флагов.
func setFlags(fs *flag.FlagSet) map[string]bool {
	m := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { m[f.Name] = true })
	return m
}

// readPassword читает пароль без эха с терминала либо строку из In.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(Out, prompt)
	if f, ok := In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(Out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printFetched(at time.Time, offline bool) {
	if offline {
		fmt.Fprintf(Out, "(cached %s)\n", at.Local().Format(time.DateTime))
	}
}

func strOrDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}
