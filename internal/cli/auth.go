package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/errors"
)

var (
	loginEmailFlag       string
	loginPasswordFlag    string
	registerEmailFlag    string
	registerPasswordFlag string
)

// loginCmd signs in and stores the session token.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the autoscaler service",
	Long: `Authenticate against the autoscaler service and store the session token.

Prompts for credentials when flags are omitted.

Examples:
  cloudguard login
  cloudguard login --email ops@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loginCommand(loginEmailFlag, loginPasswordFlag)
	},
}

// registerCmd creates an account and signs in.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long: `Create a new account on the autoscaler service.

On success you are signed in immediately with the same credentials.

Examples:
  cloudguard register
  cloudguard register --email ops@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return registerCommand(registerEmailFlag, registerPasswordFlag)
	},
}

// logoutCmd discards the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored token",
	Long:  `Remove the stored session token. Local only; no request is sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return logoutCommand()
	},
}

// whoamiCmd shows the current session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return whoamiCommand()
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVar(&loginEmailFlag, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPasswordFlag, "password", "", "account password; - reads from stdin, prompted when omitted")
	registerCmd.Flags().StringVar(&registerEmailFlag, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerPasswordFlag, "password", "", "account password; - reads from stdin, prompted when omitted")
}

// requireUser restores the session and fails unless it is authenticated.
func requireUser(ctx context.Context) (*api.User, error) {
	if err := sessions.Restore(ctx); err != nil {
		return nil, err
	}
	if err := sessions.RequireAuth(); err != nil {
		return nil, err
	}
	return sessions.Current(), nil
}

func loginCommand(email, password string) error {
	email, password, err := resolveCredentials(email, password, false)
	if err != nil {
		return err
	}

	if err := sessions.Login(context.Background(), email, password); err != nil {
		return errors.Wrap(err, "Login failed")
	}

	notifier().Success(fmt.Sprintf("Signed in as %s", sessions.Current().Email))
	return nil
}

func registerCommand(email, password string) error {
	email, password, err := resolveCredentials(email, password, true)
	if err != nil {
		return err
	}

	if err := sessions.Register(context.Background(), email, password); err != nil {
		return errors.Wrap(err, "Registration failed")
	}

	notifier().Success(fmt.Sprintf("Account created, signed in as %s", sessions.Current().Email))
	return nil
}

func logoutCommand() error {
	sessions.Logout()
	notifier().Success("Signed out")
	return nil
}

func whoamiCommand() error {
	user, err := requireUser(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("email:      %s\n", user.Email)
	fmt.Printf("user id:    %s\n", user.UserID)
	fmt.Printf("instances:  %d (%d monitoring)\n", user.InstanceCount, user.MonitoringCount)
	if user.CreatedAt != "" {
		fmt.Printf("created:    %s\n", user.CreatedAt)
	}
	return nil
}

// resolveCredentials fills in whatever the flags did not provide, prompting
// interactively on a terminal. confirm adds a password confirmation field
// for registration. "--password -" reads the password from stdin, without
// echo when stdin is a terminal.
func resolveCredentials(email, password string, confirm bool) (string, string, error) {
	if password == "-" {
		read, err := readPasswordStdin()
		if err != nil {
			return "", "", err
		}
		password = read
	}

	if email != "" && password != "" {
		return email, password, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", "", errors.New(errors.ErrInput,
			"Credentials required",
			"Pass --email and --password when running non-interactively")
	}

	var groups []*huh.Group
	if email == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("ops@example.com").
				Value(&email).
				Validate(validateEmail),
		))
	}
	if password == "" {
		fields := []huh.Field{
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		}
		if confirm {
			fields = append(fields, huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s != password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}))
		}
		groups = append(groups, huh.NewGroup(fields...))
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return "", "", errors.WrapWithCode(err, errors.ErrInput,
			"Prompt canceled", "")
	}
	return email, password, nil
}

// readPasswordStdin reads one password from stdin. On a terminal it reads
// without echo; otherwise it takes the first line, for piped input.
func readPasswordStdin() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", errors.WrapWithCode(err, errors.ErrInput,
				"Failed to read password", "")
		}
		return string(raw), nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", errors.New(errors.ErrInput,
			"No password on stdin",
			"Pipe the password in, e.g. echo $PASS | cloudguard login --email you@example.com --password -")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("that doesn't look like an email address")
	}
	return nil
}
