package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"profilehub/internal/client"
)

const usage = `Usage: profilectl [flags] <command>

Commands:
  register   create an account
  login      log in and remember the session
  profile    show your profile
  update     edit age, date of birth and contact
  logout     end the session

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("profilectl", flag.ContinueOnError)
	fs.SetOutput(out)
	serverURL := fs.String("server", envOr("PROFILEHUB_URL", "http://localhost:8080"), "API base URL")
	tokenPath := fs.String("token-file", "", "session token file (default: user config dir)")
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one command")
	}

	if *tokenPath == "" {
		path, err := client.DefaultTokenPath()
		if err != nil {
			return err
		}
		*tokenPath = path
	}

	app := &app{
		api: client.New(*serverURL, client.NewFileTokenStore(*tokenPath)),
		in:  newPrompter(in, out),
		out: out,
	}

	switch cmd := fs.Arg(0); cmd {
	case "register":
		return app.register(ctx)
	case "login":
		return app.login(ctx)
	case "profile":
		return app.profile(ctx)
	case "update":
		return app.update(ctx)
	case "logout":
		return app.logout(ctx)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

type app struct {
	api *client.Client
	in  *prompter
	out io.Writer
}

func (a *app) register(ctx context.Context) error {
	username, err := a.in.text("Username")
	if err != nil {
		return err
	}
	email, err := a.in.text("Email")
	if err != nil {
		return err
	}
	password, err := a.in.password()
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, username, email, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registration successful! You can now log in.")
	return nil
}

func (a *app) login(ctx context.Context) error {
	email, err := a.in.text("Email")
	if err != nil {
		return err
	}
	password, err := a.in.password()
	if err != nil {
		return err
	}

	username, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", username)
	return nil
}

func (a *app) profile(ctx context.Context) error {
	view, err := a.api.GetProfile(ctx)
	if err != nil {
		return sessionHint(err)
	}

	fmt.Fprintf(a.out, "Username: %s\n", view.Username)
	if !view.Completed {
		fmt.Fprintln(a.out, view.Message)
		return nil
	}
	fmt.Fprintf(a.out, "Age:      %d\n", view.Profile.Age)
	fmt.Fprintf(a.out, "DOB:      %s\n", view.Profile.DOB)
	fmt.Fprintf(a.out, "Contact:  %s\n", view.Profile.Contact)
	return nil
}

func (a *app) update(ctx context.Context) error {
	var p client.Profile
	for {
		raw, err := a.in.text("Age")
		if err != nil {
			return err
		}
		age, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && age >= 0 {
			p.Age = age
			break
		}
		fmt.Fprintln(a.out, "Age must be a whole number.")
	}

	var err error
	if p.DOB, err = a.in.text("Date of birth (YYYY-MM-DD)"); err != nil {
		return err
	}
	if p.Contact, err = a.in.text("Contact"); err != nil {
		return err
	}

	if err := a.api.UpdateProfile(ctx, p); err != nil {
		return sessionHint(err)
	}
	fmt.Fprintln(a.out, "Profile updated successfully!")
	return nil
}

func (a *app) logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	if errors.Is(err, client.ErrNotLoggedIn) {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	if errors.Is(err, client.ErrServerLogoutFailed) {
		return fmt.Errorf("local session cleared, but %w", err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func sessionHint(err error) error {
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrNotLoggedIn) {
		return fmt.Errorf("%w: run `profilectl login`", err)
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
