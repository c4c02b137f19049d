package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/raven-actions/internal/callback"
	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/schema"
	"github.com/aidanlsb/raven-actions/internal/ui"
)

var callCmd = &cobra.Command{
	Use:   "call <action> [key=value...]",
	Short: "Run an action and print its outcome",
	Long: `Run an action directly and print the outcome, the way the HTTP listener
would return it. The action path may omit the namespace prefix.

Examples:
  raven-actions call note/get file=Inbox.md
  raven-actions call /actions-uri/note/append periodic-note=daily content="- [ ] call Bob"
  raven-actions call search/all-notes query=meeting --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := paramsFromArgs(args[1:])
		if err != nil {
			return handleError(ErrInvalidInput, err, "pass parameters as key=value")
		}

		a, err := loadApp(appOptions{})
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}

		action := qualifyAction(getConfig().Prefix(), args[0])
		o, ok := a.dispatcher.Call(cmd.Context(), action, raw)
		if !ok {
			return handleErrorMsg(ErrUnknownAction, fmt.Sprintf("unknown action %s", action),
				"run 'raven-actions routes' to list actions")
		}

		if isJSONOutput() {
			data, err := callback.JSON(o)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		switch v := o.(type) {
		case outcome.Success:
			return renderSuccess(cmd.OutOrStdout(), v, ui.NewDisplayContext())
		case outcome.Failure:
			return &failureError{action: action, failure: v}
		}
		return nil
	},
}

var openNoLaunch bool

var openCmd = &cobra.Command{
	Use:   "open <uri>",
	Short: "Handle an action URI as the system URL handler would",
	Long: `Handle an incoming action URI: run the action, then open x-success or
x-error with the outcome. Failures without x-error are printed to stderr.
Register this command as the handler for the configured URI scheme.

Example:
  raven-actions open "raven://actions-uri/note/get?file=Inbox.md&x-success=things%3A%2F%2F"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := appOptions{reporter: terminalReporter{w: cmd.ErrOrStderr()}}
		if openNoLaunch {
			opts.opener = callback.OpenerFunc(func(context.Context, string) error { return nil })
		}

		a, err := loadApp(opts)
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}

		u, err := a.dispatcher.HandleURL(cmd.Context(), args[0])
		if err != nil {
			return handleError(ErrCallbackFailed, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"callback": u}, nil)
			return nil
		}
		if u != "" {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}

// paramsFromArgs parses key=value arguments. A repeated key keeps its last value.
func paramsFromArgs(args []string) (schema.Params, error) {
	raw := make(schema.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q", arg)
		}
		raw[key] = value
	}
	return raw, nil
}

// qualifyAction mounts action under prefix unless it already is.
func qualifyAction(prefix, action string) string {
	action = routes.Normalize(action)
	p := routes.Normalize(prefix)
	if p == "/" || action == p || strings.HasPrefix(action, p+"/") {
		return action
	}
	return routes.Normalize(p + action)
}

func init() {
	openCmd.Flags().BoolVar(&openNoLaunch, "no-launch", false, "Print the callback URL without opening it")
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(openCmd)
}
