package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	v        *viper.Viper
	settings *Settings
	log      *zap.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "table-mapper",
		Short: "Resolve database table metadata from Go types",
		Long: `table-mapper resolves which Go structs are tables, their schema and table
names, primary and foreign keys and the column name of every member path,
from struct tags, a YAML table configuration and naming conventions.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "table configuration file (YAML)")
	pf.String("project", "", "project settings file (default ./"+ProjectFile+".yaml)")
	pf.StringP("dir", "C", "", "directory to load packages from")
	pf.String("conventions", "", "naming conventions: default or snake")
	pf.BoolP("verbose", "v", false, "log the resolution pipeline")
	pf.Bool("no-color", false, "disable colored output")

	root.AddCommand(newInspectCommand(a))
	root.AddCommand(newCheckCommand(a))
	root.AddCommand(newExportCommand(a))
	root.AddCommand(newVersionCommand())

	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(a.v, cmd.Flags())
	if err != nil {
		return err
	}

	if s.NoColor {
		color.NoColor = true
	}

	log, err := newLogger(s.Verbose)
	if err != nil {
		return err
	}

	a.settings = s
	a.log = log

	return nil
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return err
	}

	return nil
}
