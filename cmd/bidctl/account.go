package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rodstewart/bidctl/internal/models"
	"github.com/rodstewart/bidctl/internal/session"
)

var (
	loginUsername  string
	signupUsername string
	signupEmail    string
	profileEmail   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the portal",
	Long: `Log in with your portal account. The access token is saved to the session file
and sent with every request that needs it.

Examples:
  bidctl login --username kim
  printf 'kim\nsecret\n' | bidctl login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.session.Logout(); err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "logged_out"})
		}
		fmt.Println("✓ Logged out")
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a portal account",
	Long: `Register a new account. Missing fields are prompted for.

Examples:
  bidctl signup --username lee --email lee@example.com`,
	Args: cobra.NoArgs,
	RunE: runSignup,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		snap := a.session.Snapshot()

		if jsonOutput {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(snap)
		}

		if !snap.IsLoggedIn {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("Username: %s\n", snap.Username)
		fmt.Printf("User ID:  %s\n", snap.UserID)
		if snap.Email != "" {
			fmt.Printf("Email:    %s\n", snap.Email)
		}
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your account profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Update profile fields of the logged-in account.

Examples:
  bidctl profile update --email kim@new.example.com`,
	Args: cobra.NoArgs,
	RunE: runProfileUpdate,
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Args:  cobra.NoArgs,
	RunE:  runProfilePassword,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profilePasswordCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username (prompted when omitted)")
	signupCmd.Flags().StringVarP(&signupUsername, "username", "u", "", "New account username")
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "New account email")
	profileUpdateCmd.Flags().StringVarP(&profileEmail, "email", "e", "", "New email address")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	username := loginUsername
	if username == "" {
		if username, err = readLine(reader, "Username: "); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	password, err := readSecret(reader, "Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	a.session.BeginLogin()
	resp, err := a.client.Login(cmd.Context(), models.LoginRequest{Username: username, Password: password})
	if err != nil {
		_ = a.session.FailLogin(err)
		return err
	}

	payload := session.LoginPayload{
		AccessToken: resp.AccessToken,
		UserID:      strconv.FormatInt(resp.UserID, 10),
		Username:    resp.Username,
		Email:       resp.Email,
	}
	if payload.Username == "" {
		payload.Username = username
	}
	if err := a.session.Login(payload); err != nil {
		_ = a.session.FailLogin(err)
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(a.session.Snapshot())
	}
	fmt.Printf("\n✓ Logged in as %s\n", payload.Username)
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	username, email := signupUsername, signupEmail
	if username == "" {
		if username, err = readLine(reader, "Username: "); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	if email == "" {
		if email, err = readLine(reader, "Email: "); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}
	password, err := readSecret(reader, "Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := readSecret(reader, "Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	resp, err := a.client.Signup(cmd.Context(), models.SignupRequest{Username: username, Password: password, Email: email})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("signup failed: %s", resp.Message)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(resp)
	}
	fmt.Printf("\n✓ Account %s created. Run 'bidctl login' to sign in\n", resp.Username)
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}
	if profileEmail == "" {
		return fmt.Errorf("nothing to update: use --email")
	}

	profile, err := a.client.UpdateProfile(cmd.Context(), models.ProfileUpdate{Email: profileEmail})
	if err != nil {
		return err
	}
	if err := a.session.UpdateProfile(session.ProfilePayload{Username: profile.Username, Email: profile.Email}); err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(profile)
	}
	fmt.Printf("✓ Profile updated (email: %s)\n", profile.Email)
	return nil
}

func runProfilePassword(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	current, err := readSecret(reader, "Current password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	next, err := readSecret(reader, "New password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := readSecret(reader, "Confirm new password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if current == "" || next == "" {
		return fmt.Errorf("current and new password are required")
	}
	if next != confirm {
		return fmt.Errorf("new passwords do not match")
	}

	if err := a.client.ChangePassword(cmd.Context(), models.PasswordChange{CurrentPassword: current, NewPassword: next}); err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "success"})
	}
	fmt.Println("\n✓ Password changed")
	return nil
}
