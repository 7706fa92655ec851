package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/desertthunder/vidhi/internal/shared"
)

// Prompter collects interactive input for commands run without the matching flags.
type Prompter interface {
	Credentials(username string) (string, string, error)
	Confirm(title string) (bool, error)
}

// formPrompter prompts on the terminal with huh forms.
type formPrompter struct{}

func (formPrompter) Credentials(username string) (string, string, error) {
	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Placeholder("Enter username").
				Value(&username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				Placeholder("Enter password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(required("password")),
		),
	)

	if err := form.Run(); err != nil {
		return "", "", promptError(err)
	}
	return username, password, nil
}

func (formPrompter) Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, promptError(err)
	}
	return ok, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func promptError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return shared.ErrAborted
	}
	return fmt.Errorf("prompt failed: %w", err)
}
