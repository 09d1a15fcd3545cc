package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/healthrocket/app/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// authScreen is the unauthenticated command loop. Returns false on exit.
func (a *App) authScreen(ctx context.Context) bool {
	for {
		cmd, err := getSimpleText(a.reader, "\nCommands: signin, signup, exit", os.Stdout)
		if err != nil {
			return false
		}

		switch cmd {
		case "signin":
			if err := a.signIn(ctx); err != nil {
				printAuthError(err)
				continue
			}
			return true
		case "signup":
			if err := a.signUp(ctx); err != nil {
				printAuthError(err)
				continue
			}
			return true
		case "exit", "quit":
			fmt.Println("Bye!")
			return false
		case "help", "":
			fmt.Println("Available commands: signin, signup, exit")
		default:
			fmt.Printf("Unknown command %q\n", cmd)
		}
	}
}

func (a *App) signIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.ctrl.SignIn(ctx, email, string(password)); err != nil {
		return err
	}
	fmt.Println("Signed in!")
	return nil
}

func (a *App) signUp(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	code, err := getSimpleText(a.reader, "Launch code (optional)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.ctrl.SignUp(ctx, email, string(password), name, code); err != nil {
		return err
	}
	fmt.Println("Account created!")
	return nil
}

func printAuthError(err error) {
	var ae *common.AuthenticationError
	var pce *common.ProfileCreationError
	switch {
	case errors.As(err, &ae):
		fmt.Printf("Authentication failed: %s\n", ae.Message)
	case errors.As(err, &pce):
		fmt.Println("Your account was created but the profile could not be set up.")
		fmt.Println("Please sign in again; if the problem persists, contact support.")
	default:
		fmt.Printf("Error: %s\n", err.Error())
	}
}
