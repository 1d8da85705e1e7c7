package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/benoit-pereira-da-silva/charmap/pkg/charmap"
	ptable "github.com/benoit-pereira-da-silva/charmap/pkg/table"
)

func inspectCmd(g *globals) *cobra.Command {
	var sources sourceFlags
	cmd := &cobra.Command{
		Use:   "inspect [text...]",
		Short: "show the rules of the selected tables",
		Long: "With no args, lists every mapped character and its action. " +
			"With args, shows how each character of the text is resolved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sources.build(cmd.Context(), g.logger)
			if err != nil {
				return err
			}
			defer m.Close()
			out := cmd.OutOrStdout()
			if len(args) > 0 {
				renderResolution(out, m, strings.Join(args, " "))
				return m.Err()
			}
			entries, err := m.entries(cmd.Context())
			if err != nil {
				return err
			}
			renderEntries(out, entries, m.mapper.Default())
			return nil
		},
	}
	sources.register(cmd)
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the built-in tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := list.NewWriter()
			l.SetOutputMirror(cmd.OutOrStdout())
			l.SetStyle(list.StyleConnectedLight)
			for _, name := range ptable.Presets() {
				p, err := ptable.Preset(name)
				if err != nil {
					return err
				}
				l.AppendItem(name)
				l.Indent()
				l.AppendItem(p.Description)
				l.AppendItem(fmt.Sprintf("%d rules, default %s", len(p.Rules), orPass(p.Default)))
				l.UnIndent()
			}
			l.Render()
			return nil
		},
	}
}

func renderEntries(out io.Writer, entries []charmap.Entry, def charmap.Action) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Code", "Char", "Action"})
	for _, e := range entries {
		tw.AppendRow(table.Row{fmt.Sprintf("%U", e.Rune), printable(e.Rune), e.Action.String()})
	}
	tw.AppendFooter(table.Row{"", "default", def.String()})
	tw.Render()
}

func renderResolution(out io.Writer, m *mapping, text string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Code", "Char", "Action", "Source", "Output"})
	for _, r := range text {
		a, ok := m.resolver.Lookup(r)
		source := "table"
		if !ok {
			a, source = m.mapper.Default(), "default"
		}
		tw.AppendRow(table.Row{fmt.Sprintf("%U", r), printable(r), a.String(), source, fmt.Sprintf("%q", a.Apply(r))})
	}
	tw.AppendFooter(table.Row{"", "", "", "result", fmt.Sprintf("%q", m.mapper.Map(text))})
	tw.Render()
}

func printable(r rune) string {
	if unicode.IsGraphic(r) && !unicode.IsSpace(r) {
		return string(r)
	}
	return ""
}

func orPass(def string) string {
	if def == "" {
		return charmap.Pass().String()
	}
	return def
}
