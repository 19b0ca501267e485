package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/turbocop/internal/ui/pretty"
)

// flagGroupAnnotation tags a flag with the help section it is listed under.
const flagGroupAnnotation = "turbocop_group"

// Help sections, in display order.
const (
	groupSelection = "Cop selection"
	groupOutput    = "Output"
	groupRun       = "Run control"
	groupCache     = "Cache"
	groupInfo      = "Information"
	groupOther     = "Other"
)

//nolint:gochecknoglobals // Read-only display order.
var flagGroupOrder = []string{groupSelection, groupOutput, groupRun, groupCache, groupInfo, groupOther}

// HelpStyles contains Lipgloss styles for help output.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{Command: plain, Heading: plain, Flag: plain, Description: plain, Dim: plain}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders help for the root command with flags grouped into
// sections.
type HelpFormatter struct {
	colorMode string
	writer    io.Writer
}

// NewHelpFormatter creates a help formatter. The color mode is resolved
// when help is rendered so a --color flag on the same command line applies.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode, writer: writer}
}

const helpTemplate = `{{ styleCommand .CommandPath }}{{ if .Version }} {{ styleDim .Version }}{{ end }}

{{ with (or .Long .Short) }}{{ trimTrailingWhitespaces . }}

{{ end }}{{ styleHeading "Usage:" }}
  {{ styleCommand .UseLine }}
{{ range flagGroups . }}
{{ styleHeading (print .Name ":") }}
{{ .Usage }}
{{ end }}`

// flagGroup is one rendered help section.
type flagGroup struct {
	Name  string
	Usage string
}

// SetFlagGroup files a flag under a help section.
func SetFlagGroup(cmd *cobra.Command, group string, names ...string) {
	for _, name := range names {
		// Unknown names are a programming error caught by the help tests.
		_ = cmd.Flags().SetAnnotation(name, flagGroupAnnotation, []string{group})
	}
}

func (h *HelpFormatter) groups(styles *HelpStyles, cmd *cobra.Command) []flagGroup {
	sets := make(map[string]*pflag.FlagSet, len(flagGroupOrder))
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		group := groupOther
		if values := flag.Annotations[flagGroupAnnotation]; len(values) > 0 {
			group = values[0]
		}
		set, ok := sets[group]
		if !ok {
			set = pflag.NewFlagSet(group, pflag.ContinueOnError)
			set.SortFlags = false
			sets[group] = set
		}
		set.AddFlag(flag)
	})

	var groups []flagGroup
	for _, name := range flagGroupOrder {
		set, ok := sets[name]
		if !ok {
			continue
		}
		groups = append(groups, flagGroup{Name: name, Usage: styleFlagUsages(styles, set.FlagUsages())})
	}
	return groups
}

// styleFlagUsages colors the flag names of a pflag usage block.
func styleFlagUsages(styles *HelpStyles, usages string) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		lines[i] = styleFlagLine(styles, line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles "  -f, --flag type   description".
func styleFlagLine(styles *HelpStyles, line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	flagPart, desc, ok := strings.Cut(trimmed, "   ")
	if !ok {
		return line
	}

	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if strings.HasPrefix(token, "-") {
			clean := strings.TrimSuffix(token, ",")
			tokens[i] = styles.Flag.Render(clean) + token[len(clean):]
		} else {
			tokens[i] = styles.Dim.Render(token)
		}
	}

	trimmedDesc := strings.TrimLeft(desc, " ")
	padding := len("   ") + len(desc) - len(trimmedDesc)
	return indent + strings.Join(tokens, " ") + strings.Repeat(" ", padding) +
		styles.Description.Render(trimmedDesc)
}

// ApplyToCommand installs the help and usage functions on cmd.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	render := func(command *cobra.Command) error {
		colorMode := h.colorMode
		if flag := command.Flags().Lookup("color"); flag != nil && flag.Changed {
			colorMode = flag.Value.String()
		}
		out := command.OutOrStdout()
		styles := NewHelpStyles(pretty.IsColorEnabled(colorMode, h.writer))

		tmpl, err := template.New("help").Funcs(template.FuncMap{
			"styleCommand":            styles.Command.Render,
			"styleHeading":            styles.Heading.Render,
			"styleDim":                styles.Dim.Render,
			"trimTrailingWhitespaces": trimTrailingWhitespaces,
			"flagGroups":              func(c *cobra.Command) []flagGroup { return h.groups(styles, c) },
		}).Parse(helpTemplate)
		if err != nil {
			return fmt.Errorf("parse help template: %w", err)
		}
		if err := tmpl.Execute(out, command); err != nil {
			return fmt.Errorf("render help: %w", err)
		}
		return nil
	}

	cmd.SetUsageFunc(render)
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
