package internal

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func addColor(replaceStr string, searchStr string, style lipgloss.Style) string {
	if searchStr == "" {
		return replaceStr
	}
	return strings.ReplaceAll(replaceStr, searchStr, style.Render(searchStr))
}

func FormatHelp(c *cobra.Command) {
	if c.Long != "" {
		fmt.Fprintf(c.OutOrStdout(), "%s\n\n", c.Long)
	} else if c.Short != "" {
		fmt.Fprintf(c.OutOrStdout(), "%s\n\n", c.Short)
	}
	_ = c.Usage()
}

// FormatUsage renders usage with usageFunc into w, colored.
func FormatUsage(c *cobra.Command, usageFunc func(c *cobra.Command) error, w io.Writer) error {
	var buf bytes.Buffer
	c.SetOut(&buf)
	c.SetErr(&buf)
	err := usageFunc(c)
	c.SetOut(nil)
	c.SetErr(nil)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, colorUsage(c, buf.String()))
	return err
}

func colorUsage(c *cobra.Command, usage string) string {
	subtext := lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	defaultText := lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))

	outStr := usage
	for _, heading := range []string{"Usage:", "Available Commands:", "Global Flags:", "Flags:", "Examples:"} {
		outStr = addColor(outStr, heading, title)
	}
	outStr = addColor(outStr, "[flags]", subtext)
	outStr = addColor(outStr, "[command]", subtext)

	c.Flags().VisitAll(func(flag *pflag.Flag) {
		outStr = addColor(outStr, flag.Usage, subtext)
		outStr = addColor(outStr, flag.Value.Type(), defaultText)
	})

	for _, sub := range c.Commands() {
		outStr = addColor(outStr, sub.Short, subtext)
	}

	return outStr
}
