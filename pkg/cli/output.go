package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sheepdog/pkg/cli/config"
	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

func writeResult(w io.Writer, result *model.AutomationResult, format string) error {
	if format == config.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return goerr.Wrap(err, "failed to encode result")
		}
		return nil
	}

	header := color.New(color.Bold)
	added := color.New(color.FgGreen)
	muted := color.New(color.Faint)

	header.Fprintln(w, "Features enabled:")
	writeList(w, muted, result.FeaturesEnabled())

	header.Fprintln(w, "Labels added:")
	writeList(w, added, result.LabelsAdded)

	header.Fprintln(w, "Actions:")
	writeList(w, muted, result.Actions)
	return nil
}

func writeList(w io.Writer, c *color.Color, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	c.Fprintln(w, "  - "+strings.Join(items, "\n  - "))
}

func writeResultFile(path string, result *model.AutomationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode result")
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
