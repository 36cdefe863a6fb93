package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amonks/taskday/auth"
	internalstrings "github.com/amonks/taskday/internal/strings"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var (
	registerFirst         string
	registerLast          string
	registerEmail         string
	registerPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var (
	loginEmail         string
	loginPasswordStdin bool
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)

	registerCmd.Flags().StringVar(&registerFirst, "first", "", "First name")
	registerCmd.Flags().StringVar(&registerLast, "last", "", "Last name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().BoolVar(&registerPasswordStdin, "password-stdin", false, "Read the password from stdin")
	addRegisterFlagAliases(registerCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, err := readPassword(cmd, registerPasswordStdin)
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app) error {
		user, err := a.gate.Register(auth.RegisterInput{
			FirstName: registerFirst,
			LastName:  registerLast,
			Email:     registerEmail,
			Password:  password,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s <%s>\n", user.DisplayName(), user.Email)
		return nil
	})
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := readPassword(cmd, loginPasswordStdin)
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app) error {
		user, err := a.gate.Login(loginEmail, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", user.DisplayName(), user.Email)
		return nil
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		if err := a.gate.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	})
}

func runWhoami(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		user, err := a.gate.RequireUser()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.DisplayName(), user.Email)
		return nil
	})
}

// readPassword reads a password from stdin when fromStdin is set, and
// otherwise prompts on the terminal without echo.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		return readPasswordLine(cmd.InOrStdin())
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password required: use --password-stdin when stdin is not a terminal")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(value), nil
}

func readPasswordLine(reader io.Reader) (string, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return internalstrings.FirstLine(line), nil
}
