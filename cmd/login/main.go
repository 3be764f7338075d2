// Package main is an interactive login client for the authentication
// server. It restores remembered credentials from a local cookie store,
// prompts for whatever is still missing, authenticates, and on success
// persists the credential envelope for the next run.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/dkoval/authkit/client"
	"github.com/dkoval/authkit/cookie"
	"github.com/dkoval/authkit/messages"
	"github.com/dkoval/authkit/models"
	"github.com/dkoval/authkit/session"
	"github.com/dkoval/authkit/validate"
)

const (
	cookieKey            = "authkit_login"
	cookieExpiresMinutes = 30 * 24 * 60
)

// resources holds the English display text. A deployment would swap
// this for its own localization source.
var resources = validate.MapResources{
	"username":                  "Username",
	"password":                  "Password",
	"passcode":                  "Passcode",
	"error_required":            "{0} is required.",
	"error":                     "Error",
	"error_internal":            "An internal error occurred. Please try again later.",
	"error_service_unavailable": "The service is temporarily unavailable.",
	"fail_authentication":       "Authentication failed.",
	"fail_wrong_password":       "The username or password is incorrect.",
	"fail_access_time_locked":   "Login is not allowed at this time.",
	"fail_expired_password":     "Your password has expired.",
	"fail_suspended_account":    "This account is suspended.",
	"fail_locked_account":       "This account is locked. Try again later.",
	"fail_disabled_account":     "This account is disabled.",
}

func main() {
	serverURL := flag.String("u", "http://localhost:8080", "authentication server base URL")
	username := flag.String("user", "", "username (prompted when empty)")
	remember := flag.Bool("remember", false, "remember the credential for the next run")
	forget := flag.Bool("forget", false, "discard the remembered credential and exit")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("COOKIE_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "COOKIE_SECRET must be set")
		os.Exit(1)
	}

	store, err := cookie.OpenSQLiteStore(cookiePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open cookie store: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	encoder, err := cookie.NewAESEncoder([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build encoder: %v\n", err)
		os.Exit(1)
	}

	if *forget {
		cookie.HandleCookie(cookieKey, models.AuthInfo{}, false, store, 0, encoder)
		fmt.Println("Remembered credential discarded.")
		return
	}

	var user models.AuthInfo
	needPrompt := cookie.InitFromCookie(cookieKey, &user, store, encoder)
	if !needPrompt {
		// A remembered login keeps refreshing its own cookie.
		*remember = true
	}

	reader := bufio.NewReader(os.Stdin)
	if needPrompt {
		if *username != "" {
			user.Username = *username
		}
		promptCredentials(reader, &user)
	}

	if !validate.Validate(user, resources, func(message, field string) {
		fmt.Fprintln(os.Stderr, message)
	}) {
		os.Exit(1)
	}

	authClient := client.NewAuthClient(&http.Client{Timeout: 15 * time.Second}, *serverURL+"/api/authenticate")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := authClient.Authenticate(ctx, user)
	if err != nil {
		em := messages.GetErrorMessage(err, resources)
		fmt.Fprintf(os.Stderr, "%s: %s\n", em.Title, em.Message)
		os.Exit(1)
	}

	if result.Status == models.StatusTwoFactorRequired {
		fmt.Print(resources.Value("passcode") + ": ")
		code, _ := reader.ReadString('\n')
		user.Passcode = strings.TrimSpace(code)
		user.Step = 1
		if !validate.Validate(user, resources, func(message, field string) {
			fmt.Fprintln(os.Stderr, message)
		}) {
			os.Exit(1)
		}
		result, err = authClient.Authenticate(ctx, user)
		if err != nil {
			em := messages.GetErrorMessage(err, resources)
			fmt.Fprintf(os.Stderr, "%s: %s\n", em.Title, em.Message)
			os.Exit(1)
		}
	}

	switch result.Status {
	case models.StatusSuccess, models.StatusSuccessAndReactivated:
		session.Store(result.User,
			func(account *models.Account) {
				if account != nil {
					fmt.Printf("Welcome, %s.\n", account.Username)
				}
			},
			func(privileges []models.Privilege) {
				if privileges == nil {
					return
				}
				fmt.Printf("You have access to %d top-level areas.\n", len(privileges))
			},
		)
		cookie.HandleCookie(cookieKey, user, *remember, store, cookieExpiresMinutes, encoder)
		if result.Status == models.StatusSuccessAndReactivated {
			fmt.Println("Your account was reactivated.")
		}
	default:
		fmt.Fprintln(os.Stderr, messages.GetMessage(result.Status, resources))
		// A rejected remembered credential is stale; drop it.
		cookie.HandleCookie(cookieKey, user, false, store, 0, encoder)
		os.Exit(1)
	}
}

// promptCredentials fills in the username and password interactively.
// The password is read without echo when stdin is a terminal.
func promptCredentials(reader *bufio.Reader, user *models.AuthInfo) {
	if user.Username == "" {
		fmt.Print(resources.Value("username") + ": ")
		name, _ := reader.ReadString('\n')
		user.Username = strings.TrimSpace(name)
	}
	if user.Password != "" {
		return
	}
	fmt.Print(resources.Value("password") + ": ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err == nil {
			user.Password = string(raw)
			return
		}
	}
	pw, _ := reader.ReadString('\n')
	user.Password = strings.TrimSpace(pw)
}

// cookiePath places the cookie database under the user config dir,
// falling back to the working directory.
func cookiePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "authkit.db"
	}
	full := filepath.Join(dir, "authkit")
	if err := os.MkdirAll(full, 0o700); err != nil {
		return "authkit.db"
	}
	return filepath.Join(full, "cookies.db")
}
