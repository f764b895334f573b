package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/equilibri/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, []byte, error) {
	login, err := getSimpleText(a.reader, "Enter login", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return login, password, nil
}

// Register creates an account. It does not log the user in.
func (a *App) Register(ctx context.Context) error {
	login, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if login == "" || strings.TrimSpace(string(password)) == "" {
		a.println("Please fill in all the fields!")
		return common.ErrInvalidArgument
	}

	if err := a.core.Register(ctx, login, password); err != nil {
		if errors.Is(err, common.ErrAuthenticationFailed) {
			a.println("Registration failed!")
		} else {
			a.println(common.UserMessage(err))
		}
		return err
	}

	a.println("Registration successful!")
	return nil
}

// Login authenticates and opens a session; the saved marker lets the next
// start skip this step.
func (a *App) Login(ctx context.Context) error {
	login, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if login == "" || strings.TrimSpace(string(password)) == "" {
		a.println("Error: Login and password fields cannot be empty!")
		return common.ErrInvalidArgument
	}

	s, err := a.core.Login(ctx, login, password)
	if err != nil {
		a.println(common.UserMessage(err))
		return err
	}

	a.println("Welcome, " + s.Login + "!")
	return a.List(ctx)
}

// Logout ends the session and forgets the saved marker.
func (a *App) Logout(ctx context.Context) error {
	if err := a.core.Logout(ctx); err != nil {
		a.println(common.UserMessage(err))
		return err
	}
	a.println("Logged out.")
	return nil
}
