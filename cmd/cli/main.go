package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/juho05/log"

	"github.com/gunnarhm/mkcontrol/config"
	"github.com/gunnarhm/mkcontrol/repos/file"
	"github.com/gunnarhm/mkcontrol/services"
)

// setPassword resets the shared secret by writing straight to the settings
// store, bypassing the HTTP layer. Existing sessions are left untouched.
func setPassword(authService services.AuthService, args []string) error {
	if len(args) == 0 {
		fmt.Println("USAGE mkcontrol-cli set-password <password>")
		os.Exit(1)
	}
	err := authService.SetCredential(args[0])
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCredential):
			return errors.New("password cannot be empty")
		case errors.Is(err, services.ErrCredentialTooShort):
			return errors.New("password must be at least 4 characters")
		}
		return err
	}
	fmt.Printf("Password saved to %s\n", config.SettingsFile())
	return nil
}

func run(args []string) error {
	settingsRepo := file.NewSettingsRepository(config.SettingsFile())
	authService := services.NewAuthService(settingsRepo, config.SessionTTL())
	if len(args) == 0 {
		fmt.Println(`USAGE mkcontrol-cli <command>
COMMANDS
		- set-password <password>
		`)
		os.Exit(1)
	}
	var err error
	switch args[0] {
	case "set-password":
		err = setPassword(authService, args[1:])
	default:
		err = fmt.Errorf("unknown command: %s", args[0])
	}
	return err
}

func main() {
	godotenv.Load()

	log.SetSeverity(config.LogLevel())
	log.SetOutput(config.LogFile())

	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Println("Done.")
}
