package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agritrack/agritrack-cli/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the new account's details and creates it. The backend
// logs the new user straight in, so on success the session is ready to use.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	roles, err := promptRole(a.reader, a.out)
	if err != nil {
		return err
	}

	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	sess, err := a.auth.Register(rctx, models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: string(password),
		Roles:    roles,
	})
	if err != nil {
		a.printError(err)
		return err
	}

	a.sess = sess
	a.printSuccess(fmt.Sprintf("Account created. Logged in as %s.", sess.Username))
	return nil
}

// Login prompts for credentials and authenticates against the backend. On
// success the session is persisted so the next run starts logged in.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	sess, err := a.auth.Login(rctx, username, string(password))
	if err != nil {
		a.printError(err)
		return err
	}

	a.sess = sess
	msg := fmt.Sprintf("Logged in as %s", sess.Username)
	if len(sess.Roles) > 0 {
		msg += " (" + strings.Join(sess.Roles, ", ") + ")"
	}
	a.printSuccess(msg + ".")
	return nil
}

// Logout drops the token and wipes the persisted session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.printError(err)
		return err
	}
	a.sess = nil
	a.current = nil
	a.form.Cancel()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// promptRole lets the registering user pick an optional stage role.
var roleOptions = []string{"none", "FARMER", "PROCESSOR", "WAREHOUSE_MANAGER", "DISTRIBUTOR", "RETAILER"}

func promptRole(reader *bufio.Reader, w io.Writer) ([]string, error) {
	role, err := GetChoice(reader, "Stage role (determines which stages you may record):", roleOptions, w)
	if err != nil {
		return nil, err
	}
	if role == "none" {
		return nil, nil
	}
	return []string{"ROLE_" + role}, nil
}
