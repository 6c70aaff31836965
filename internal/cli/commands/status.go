package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"LightAdmin/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Section() string     { return SectionSession }
func (statusCmd) Description() string { return "Show installation step and session state" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Quiet()

	step, err := app.Session.Step(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Server:  %s (%s)\n", cfg.ServerURL, step)

	if login, err := app.Store.LoadLogin(); err == nil {
		fmt.Fprintf(Out, "User:    %s\n", login)
	}
	state, err := app.Session.Probe(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Session: %s\n", state)

	creds, err := app.Store.Load()
	if err == nil && creds.AccessToken != "" {
		if exp, ok := tokenExpiry(creds.AccessToken); ok {
			fmt.Fprintf(Out, "Access:  expires %s\n", exp.Local().Format(time.DateTime))
		}
	}
	return nil
}

// tokenExpiry читает exp без проверки подписи: только для отображения.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func init() { RegisterCmd(statusCmd{}) }
