package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wasmcp/wasmcp/internal/store"
)

var componentConfigPath string

func newComponentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "component",
		Short: "Manage named aliases for component specs",
	}
	cmd.PersistentFlags().StringVar(&componentConfigPath, "config-path", store.GetDefaultConfigPathOrPanic(), "configuration directory")

	cmd.AddCommand(newComponentSetCmd())
	cmd.AddCommand(newComponentListCmd())
	cmd.AddCommand(newComponentRemoveCmd())
	return cmd
}

func newComponentSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <alias> <spec>",
		Short: "Register or update an alias for a component spec",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewStore(componentConfigPath)
			return st.SetComponent(args[0], args[1])
		},
	}
}

func newComponentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewStore(componentConfigPath)
			names, err := st.ListComponents()
			if err != nil {
				return err
			}
			for _, name := range names {
				spec, _, err := st.GetComponent(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", name, spec)
			}
			return nil
		},
	}
}

func newComponentRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <alias>",
		Short: "Remove a registered alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewStore(componentConfigPath)
			return st.RemoveComponent(args[0])
		},
	}
}
