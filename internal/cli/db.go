package cli

import (
	"fmt"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/benoit-pereira-da-silva/charmap/pkg/store"
	ptable "github.com/benoit-pereira-da-silva/charmap/pkg/table"
)

func importCmd(g *globals) *cobra.Command {
	var (
		db      dbFlags
		presets []string
		name    string
	)
	cmd := &cobra.Command{
		Use:   "import [table.yaml...]",
		Short: "store table files and presets in --db",
		Long: "Each table is saved under its own name, replacing any stored " +
			"table of the same name. --name renames a single table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []*ptable.File
			for _, p := range presets {
				f, err := ptable.Preset(p)
				if err != nil {
					return err
				}
				files = append(files, f)
			}
			for _, path := range args {
				f, err := ptable.Load(path)
				if err != nil {
					return err
				}
				files = append(files, f)
			}
			switch {
			case len(files) == 0:
				return ErrNothingToApply
			case name != "" && len(files) > 1:
				return fmt.Errorf("--name needs exactly one table, got %d", len(files))
			case name != "":
				files[0].Name = name
			}

			d, err := db.open()
			if err != nil {
				return err
			}
			defer d.Close()
			for _, f := range files {
				res, def, err := f.Compile()
				if err != nil {
					return err
				}
				entries := slices.Collect(res.Entries())
				if err := store.Save(cmd.Context(), d, f.Name, def, entries); err != nil {
					return err
				}
				g.logger.Info("table imported", "table", f.Name, "runes", len(entries), "default", def.String())
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d runes\n", f.Name, len(entries))
			}
			return nil
		},
	}
	db.register(cmd)
	cmd.Flags().StringSliceVarP(&presets, "preset", "p", nil, "built-in table to import, repeatable")
	cmd.Flags().StringVarP(&name, "name", "n", "", "store the table under this name")
	return cmd
}

func exportCmd() *cobra.Command {
	var db dbFlags
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "print a stored table as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := db.open()
			if err != nil {
				return err
			}
			defer d.Close()
			def, err := store.LoadDefault(cmd.Context(), d, args[0])
			if err != nil {
				return err
			}
			entries, err := store.Entries(cmd.Context(), d, args[0])
			if err != nil {
				return err
			}
			data, err := ptable.FromEntries(args[0], def, entries).Marshal()
			if err != nil {
				return fmt.Errorf("error encoding table %q: %w", args[0], err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	db.register(cmd)
	return cmd
}

func tablesCmd() *cobra.Command {
	var db dbFlags
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "list the tables stored in --db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := db.open()
			if err != nil {
				return err
			}
			defer d.Close()
			names, err := store.Tables(cmd.Context(), d)
			if err != nil {
				return err
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Name", "Runes", "Default"})
			for _, name := range names {
				def, err := store.LoadDefault(cmd.Context(), d, name)
				if err != nil {
					return err
				}
				entries, err := store.Entries(cmd.Context(), d, name)
				if err != nil {
					return err
				}
				tw.AppendRow(table.Row{name, len(entries), def.String()})
			}
			tw.Render()
			return nil
		},
	}
	db.register(cmd)
	return cmd
}
