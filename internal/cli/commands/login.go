package commands

import (
	"context"
	"errors"
	"fmt"

	"LightAdmin/internal/cli/model"
	"LightAdmin/internal/cli/service"
	"LightAdmin/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Section() string     { return SectionSession }
func (loginCmd) Description() string { return "Sign in and store the token pair" }
func (loginCmd) Usage() string       { return "login <user> [password]" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	user := args[0]
	var password string
	if len(args) == 2 {
		password = args[1]
	} else {
		p, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		password = p
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	// неудачный вход не должен подсказывать "войдите снова"
	app.Quiet()

	if err := app.Session.Login(ctx, user, password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return service.ErrInvalidCredentials
		}
		return err
	}
	if err := app.UseCurrentUser(); err != nil {
		app.Logger.Warnw("offline cache unavailable", "error", err)
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Section() string     { return SectionSession }
func (logoutCmd) Description() string { return "Revoke the refresh token and forget the session" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Quiet()

	if err := app.Session.Logout(ctx); err != nil {
		if errors.Is(err, service.ErrNoRefreshToken) {
			fmt.Fprintln(Out, "Not logged in")
			return nil
		}
		// локально сессия уже стёрта
		fmt.Fprintln(Out, "Logged out locally")
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type setupCmd struct{}

func (setupCmd) Name() string        { return "setup" }
func (setupCmd) Section() string     { return SectionSession }
func (setupCmd) Description() string { return "Create the first account on a fresh installation" }
func (setupCmd) Usage() string       { return "setup <key> <user> [password]" }

func (setupCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	key, user := args[0], args[1]
	var password string
	if len(args) == 3 {
		password = args[2]
	} else {
		p, err := readPassword("New password: ")
		if err != nil {
			return err
		}
		password = p
	}

	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	step, err := app.Session.Step(ctx)
	if err != nil {
		return err
	}
	if step != model.StepSetup {
		return errors.New("already installed: use login")
	}
	if err := app.Session.Setup(ctx, key, user, password); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Account %q created, now run: lacli login %s\n", user, user)
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(setupCmd{})
}
