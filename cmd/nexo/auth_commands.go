package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/tyha2404/nexo-app/internal/session"
)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Password (prompted if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return errors.New("login: -email is required")
	}
	if *password == "" {
		fmt.Fprint(a.stdout, "Password: ")
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	user, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("login failed: check your email and password")
	}

	fmt.Fprintf(a.stdout, "Logged in as %s <%s>\n", user.Username, user.Email)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged out.")
	return nil
}

func (a *app) cmdWhoAmI(ctx context.Context) error {
	stored, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Stored user: %s <%s>\n", stored.Username, stored.Email)

	if token := a.store.Token(ctx); token != "" {
		if claims, err := session.ParseClaims(token); err == nil {
			if !claims.ExpiresAt.IsZero() {
				state := "valid until"
				if claims.Expired() {
					state = "expired at"
				}
				fmt.Fprintf(a.stdout, "Token: %s %s\n", state, claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
		}
	}

	// Server-side confirmation. Any failure evicts the token; a 401
	// additionally clears the stored user.
	if user := a.auth.CurrentUser(ctx); user != nil {
		fmt.Fprintf(a.stdout, "Server says: %s <%s>\n", user.Username, user.Email)
	} else {
		fmt.Fprintln(a.stdout, "Server did not confirm the session.")
	}
	return nil
}

func (a *app) cmdForgotPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	email := fs.String("email", "", "Account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("forgot-password: -email is required")
	}

	ack, err := a.auth.ForgotPassword(ctx, *email)
	if err != nil {
		return err
	}
	if !ack.Success {
		if ack.Message != "" {
			return fmt.Errorf("forgot password: %s", ack.Message)
		}
		return errors.New("forgot password: server reported failure")
	}
	fmt.Fprintln(a.stdout, "Reset email sent. Check your inbox.")
	return nil
}

func (a *app) cmdResetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	token := fs.String("token", "", "Reset token from the email")
	password := fs.String("password", "", "New password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" || *password == "" {
		return errors.New("reset-password: -token and -password are required")
	}

	ack, err := a.auth.ResetPassword(ctx, *password, *token)
	if err != nil {
		return err
	}
	if !ack.Success {
		if ack.Message != "" {
			return fmt.Errorf("reset password: %s", ack.Message)
		}
		return errors.New("reset password: server reported failure")
	}
	fmt.Fprintln(a.stdout, "Password updated. You can log in now.")
	return nil
}
