package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/raven-actions/internal/dates"
	"github.com/aidanlsb/raven-actions/internal/periodic"
	"github.com/aidanlsb/raven-actions/internal/ui"
)

var periodicOverwrite bool

var periodicCmd = &cobra.Command{
	Use:   "periodic",
	Short: "Inspect and create periodic notes",
}

var periodicPathCmd = &cobra.Command{
	Use:   "path <daily|weekly|monthly|quarterly|yearly> [date]",
	Short: "Print the note path for a period",
	Long: `Print the vault path of the periodic note covering a date. The date is
today, yesterday, tomorrow or YYYY-MM-DD and defaults to today.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := periodic.ParseType(args[0])
		if err != nil {
			return handleError(ErrPeriodicInvalid, err, "")
		}
		dateArg := ""
		if len(args) > 1 {
			dateArg = args[1]
		}
		at, err := dates.ParseDateArg(dateArg, time.Now())
		if err != nil {
			return handleError(ErrInvalidInput, err, "use today, yesterday, tomorrow or YYYY-MM-DD")
		}

		a, err := loadApp(appOptions{})
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		notePath, err := a.periodic.PathFor(kind, at)
		if err != nil {
			return handleError(ErrPeriodicInvalid, err, periodicHint(err, kind))
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"type": string(kind), "path": notePath}, nil)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), notePath)
		return nil
	},
}

var periodicCreateCmd = &cobra.Command{
	Use:   "create <daily|weekly|monthly|quarterly|yearly>",
	Short: "Create the note for the current period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := periodic.ParseType(args[0])
		if err != nil {
			return handleError(ErrPeriodicInvalid, err, "")
		}

		a, err := loadApp(appOptions{})
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		notePath, err := a.periodic.Create(cmd.Context(), kind, periodicOverwrite)
		if err != nil {
			return handleError(ErrPeriodicInvalid, err, periodicHint(err, kind))
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"type": string(kind), "path": notePath}, nil)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Created "+ui.FilePath(notePath)))
		return nil
	},
}

func periodicHint(err error, kind periodic.Type) string {
	if errors.Is(err, periodic.ErrDisabled) {
		return fmt.Sprintf("set enabled = true under [periodic.%s] in config.toml", kind)
	}
	return ""
}

func init() {
	periodicCreateCmd.Flags().BoolVar(&periodicOverwrite, "overwrite", false, "Replace an existing note for the period")
	periodicCmd.AddCommand(periodicPathCmd)
	periodicCmd.AddCommand(periodicCreateCmd)
	rootCmd.AddCommand(periodicCmd)
}
