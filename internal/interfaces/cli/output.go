package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/rxndb-explorer/internal/application/explorer"
	"github.com/turtacn/rxndb-explorer/internal/domain/reaction"
)

// printResult renders data in the selected output format.
func printResult(cmd *cobra.Command, format string, headers []string, rows [][]string, data interface{}) error {
	if format == "json" {
		return printJSON(cmd, data)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatTable(headers, rows))
	return nil
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// reactionRows flattens reaction records for tabular output.
func reactionRows(rows []reaction.Reaction) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.ID,
			string(r.Type),
			r.Equation,
			strings.Join(r.StrippedReactants(), ","),
			strings.Join(r.StrippedProducts(), ","),
			r.Reference,
		})
	}
	return out
}

var reactionHeaders = []string{"ID", "TYPE", "REACTION", "REACTANTS", "PRODUCTS", "REF"}

func groupRows(groups []explorer.GroupInfo) [][]string {
	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, []string{
			fmt.Sprintf("%d", g.Group),
			g.Color,
			strings.Join(g.IDs, ","),
		})
	}
	return out
}

var groupHeaders = []string{"GROUP", "COLOR", "REACTIONS"}

// formatTable renders headers and rows as an aligned ASCII table.
func formatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	for i, h := range headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(padRight(h, widths[i]))
	}
	sb.WriteString("\n")
	for i, w := range widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			sb.WriteString(padRight(val, widths[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
