package main

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/falzahrani7002-debug/gggpro/internal/docpath"
	"github.com/falzahrani7002-debug/gggpro/internal/editor"
)

var (
	serverURL string
	authToken string
)

var rootCmd = &cobra.Command{
	Use:   "portfolioctl",
	Short: "Administer the portfolio server",
	Long: `portfolioctl edits the shared portfolio document over the server's
HTTP API: log in as admin, toggle edit mode, set fields by dotted path
and manage collection items.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8090", "portfolio server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("PORTFOLIO_TOKEN"), "admin token (defaults to PORTFOLIO_TOKEN)")

	rootCmd.AddCommand(loginCmd, editCmd, langCmd, setCmd, addCmd, deleteCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the shared admin password",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}
		token, err := newAPIClient(serverURL, "").login(string(password))
		if err != nil {
			return err
		}
		fmt.Printf("export PORTFOLIO_TOKEN=%s\n", token)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [on|off]",
	Short: "Toggle edit mode for this session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "on" && args[0] != "off" {
			return fmt.Errorf("expected on or off, got %q", args[0])
		}
		state, err := newAPIClient(serverURL, authToken).setEditing(args[0] == "on")
		if err != nil {
			return err
		}
		fmt.Printf("editing=%v language=%s\n", state.IsEditing, state.Language)
		return nil
	},
}

var langCmd = &cobra.Command{
	Use:   "lang [ar|en]",
	Short: "Switch the session display language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := newAPIClient(serverURL, authToken).setLanguage(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("language=%s direction=%s\n", state.Language, state.Direction)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <dotted-path> <value>",
	Short: "Edit one document field by dotted path",
	Long: `set edits a scalar field the same way the in-place editor does:
the current value is fetched, the edit only commits when the new value
differs, and a rejected save leaves the document untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, value := args[0], args[1]
		client := newAPIClient(serverURL, authToken)

		state, err := client.session()
		if err != nil {
			return err
		}
		doc, err := client.portfolio()
		if err != nil {
			return err
		}
		current, ok := docpath.Get(doc, path)
		if !ok {
			return fmt.Errorf("no field at %s", path)
		}

		field := editor.NewField(current.String(), false, func() bool {
			return state.IsAdmin && state.IsEditing
		}, func(newValue string) error {
			return client.patchField(path, newValue)
		})
		field.Click()
		if field.State() != editor.StateEditing {
			return fmt.Errorf("edit mode is off; run: portfolioctl edit on")
		}
		if err := field.Input(value); err != nil {
			return err
		}
		committed, err := field.Enter()
		if err != nil {
			return err
		}
		if !committed {
			fmt.Println("unchanged")
			return nil
		}
		fmt.Printf("%s = %s\n", path, value)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <collection> <record-json>",
	Short: "Append a record to a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := newAPIClient(serverURL, authToken).addItem(args[0], json.RawMessage(args[1]))
		if err != nil {
			return err
		}
		fmt.Println(string(created))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <collection> <id>",
	Short: "Delete a record from a collection by id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient(serverURL, authToken).deleteItem(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	},
}
