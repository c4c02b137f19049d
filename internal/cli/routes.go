package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/ui"
)

type routeInfo struct {
	Path              string `json:"path"`
	Group             string `json:"group"`
	RequiresCallbacks bool   `json:"requires_callbacks"`
}

func listRoutes(reg *routes.Registry) []routeInfo {
	paths := reg.Paths()
	out := make([]routeInfo, 0, len(paths))
	for _, p := range paths {
		r, _ := reg.Lookup(p)
		out = append(out, routeInfo{Path: r.Path, Group: r.Group, RequiresCallbacks: r.RequiresCallbacks()})
	}
	return out
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List every registered action",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(appOptions{})
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		infos := listRoutes(a.registry)

		if isJSONOutput() {
			outputSuccess(infos, &Meta{Count: len(infos)})
			return nil
		}

		tbl := ui.NewTable(2)
		for _, r := range infos {
			note := ""
			if r.RequiresCallbacks {
				note = ui.Hint("needs x-success and x-error as a URI")
			}
			tbl.AddRow(ui.FilePath(r.Path), note)
		}
		fmt.Fprint(cmd.OutOrStdout(), tbl.String())
		fmt.Fprintln(cmd.OutOrStdout(), ui.Hint(ui.Count(len(infos), "action", "actions")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
