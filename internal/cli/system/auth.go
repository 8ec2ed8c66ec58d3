package system

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/habitline/internal/api"
	"github.com/julianstephens/habitline/internal/auth"
	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/logger"
)

type AuthCmd struct {
	Login  AuthLoginCmd  `cmd:"" help:"Store an ID token issued by the habit tracker sign-in."`
	Logout AuthLogoutCmd `cmd:"" help:"Remove the stored ID token."`
	Status AuthStatusCmd `cmd:"" help:"Show who is signed in."`
}

type AuthLoginCmd struct {
	Token      string `arg:"" optional:"" help:"ID token. Read from stdin or prompted for when omitted."`
	PhotoURL   string `name:"photo-url" help:"Profile photo URL sent when registering."`
	NoRegister bool   `name:"no-register" help:"Do not register the user with the habit service."`
}

func (c *AuthLoginCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(c.Token)
	if token == "" {
		var err error
		if token, err = readToken(); err != nil {
			return err
		}
	}

	claims, err := auth.SaveToken(token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if claims.Expired(ctx.Wallclock()) {
		ctx.Println("⚠️  Warning: this token has already expired.")
	}
	ctx.Printf("✓ Signed in as %s\n", claims.Email)

	if c.NoRegister || ctx.Offline {
		return nil
	}

	client, err := ctx.Client(token)
	if err != nil {
		return err
	}
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	// The stored token stays valid even when registration fails.
	user := api.User{Name: claims.Name, Email: claims.Email, PhotoURL: c.PhotoURL}
	if err := client.RegisterUser(reqCtx, user); err != nil {
		logger.Warn("User registration failed", "email", claims.Email, "error", err)
		ctx.Println("⚠️  Could not register with the habit service; you can still use habitline.")
	}
	return nil
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd())
}

func readToken() (string, error) {
	var token string
	if stdinIsTerminal() {
		err := huh.NewInput().
			Title("Paste your ID token").
			EchoMode(huh.EchoModePassword).
			Value(&token).
			Run()
		if err != nil {
			return "", err
		}
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		if scanner.Scan() {
			token = scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("no token given")
	}
	return token, nil
}

type AuthLogoutCmd struct{}

func (c *AuthLogoutCmd) Run(ctx *cli.Context) error {
	if err := auth.DeleteToken(); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	ctx.Println("✓ Signed out")
	return nil
}

type AuthStatusCmd struct{}

func (c *AuthStatusCmd) Run(ctx *cli.Context) error {
	token, err := auth.LoadToken()
	if errors.Is(err, auth.ErrNotLoggedIn) {
		ctx.Println("Not signed in.")
		return nil
	}
	if err != nil {
		return err
	}

	claims, err := auth.ParseClaims(token)
	if err != nil {
		return err
	}

	name := claims.Email
	if claims.Name != "" {
		name = fmt.Sprintf("%s <%s>", claims.Name, claims.Email)
	}
	ctx.Printf("Signed in as %s\n", name)

	switch now := ctx.Wallclock(); {
	case claims.ExpiresAt.IsZero():
		ctx.Println("Token has no expiry.")
	case claims.Expired(now):
		ctx.Printf("Token expired at %s. Run 'habitline auth login' again.\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	default:
		ctx.Printf("Token valid until %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}
