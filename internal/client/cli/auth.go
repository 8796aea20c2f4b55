package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sportclub/internal/client/models"
)

// getSimpleText, getInt and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getInt        = GetInt
	getPassword   = GetPassword
)

// Login prompts for email and password and signs in through the session
// controller. The stored credential is only written on success.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		a.log.Debug(ctx, "login failed", "error", err)
		return a.report(err)
	}
	a.log.Debug(ctx, "login ok", "user_id", user.ID)
	return nil
}

// Register walks through the signup form and signs the new member in.
func (a *App) Register(ctx context.Context) error {
	var (
		form models.RegisterUserRequest
		err  error
	)

	text := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &form.FirstName},
		{"Last name", &form.LastName},
		{"Enter email", &form.Email},
	}
	for _, f := range text {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	if form.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}
	if form.Phone.Prefix, err = getSimpleText(a.reader, "Phone prefix (e.g. +972)", a.out); err != nil {
		return err
	}
	if form.Phone.Number, err = getSimpleText(a.reader, "Phone number", a.out); err != nil {
		return err
	}
	sport, err := getSimpleText(a.reader, "Sport (football/basketball)", a.out)
	if err != nil {
		return err
	}
	form.SportCategory = models.SportCategory(strings.ToLower(sport))
	if form.YearOfBirth, err = getInt(a.reader, "Year of birth", a.out); err != nil {
		return a.report(err)
	}

	user, err := a.session.Register(ctx, form)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Registered as %s\n", user.DisplayName())
	return nil
}

// Logout signs out; the orchestrator clears the credential and notifies.
func (a *App) Logout(ctx context.Context) error {
	return a.report(a.session.Logout(ctx))
}
