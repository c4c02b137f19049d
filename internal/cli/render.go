package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/ui"
)

// renderSuccess prints a success for a human reader.
func renderSuccess(w io.Writer, s outcome.Success, display *ui.DisplayContext) error {
	switch r := s.Result.(type) {
	case outcome.TextResult:
		line := ui.Success(r.Message)
		if s.ProcessedPath != "" {
			line += "  " + ui.FilePath(s.ProcessedPath)
		}
		fmt.Fprintln(w, line)

	case outcome.PathsResult:
		for _, p := range r.Paths {
			fmt.Fprintln(w, ui.FilePath(p))
		}
		fmt.Fprintln(w, ui.Hint(ui.Count(len(r.Paths), "note", "notes")))

	case outcome.HelloResult:
		fmt.Fprintln(w, ui.Header(r.Message))
		for _, a := range r.Actions {
			fmt.Fprintln(w, "  "+ui.FilePath(a))
		}

	case outcome.PropertiesResult:
		return renderProperties(w, r.Properties)

	case outcome.FileResult:
		fmt.Fprintln(w, ui.Header(r.FilePath))
		if r.UID != "" {
			fmt.Fprintln(w, ui.Hint("uid: "+r.UID))
		}
		if len(r.Properties) > 0 {
			if err := renderProperties(w, r.Properties); err != nil {
				return err
			}
		}
		if !display.IsTTY {
			fmt.Fprint(w, r.Body)
			return nil
		}
		out, err := ui.RenderMarkdown(r.Body, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			fmt.Fprint(w, r.Body)
			return nil
		}
		fmt.Fprint(w, out)

	default:
		data, err := json.MarshalIndent(s.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

func renderProperties(w io.Writer, props map[string]any) error {
	if len(props) == 0 {
		fmt.Fprintln(w, ui.Hint("(no properties)"))
		return nil
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tbl := ui.NewTable(2)
	for _, k := range keys {
		value, err := yaml.Marshal(props[k])
		if err != nil {
			return fmt.Errorf("encode property %s: %w", k, err)
		}
		tbl.AddRow(ui.Muted.Render(k+":"), strings.TrimSpace(string(value)))
	}
	fmt.Fprint(w, tbl.String())
	return nil
}

// failureError carries an action failure out of a command.
type failureError struct {
	action  string
	failure outcome.Failure
}

func (e *failureError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.action, e.failure.Message, e.failure.Code)
}
