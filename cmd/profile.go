package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wasmcp/wasmcp/internal/store"
)

var (
	profileConfigPath string
	profileBase       string
	profileComponents []string
	profileOutput     string
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage named composition profiles",
	}
	cmd.PersistentFlags().StringVar(&profileConfigPath, "config-path", store.GetDefaultConfigPathOrPanic(), "configuration directory")

	cmd.AddCommand(newProfileSetCmd())
	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileRemoveCmd())
	return cmd
}

func newProfileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Register or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewStore(profileConfigPath)
			return st.SetProfile(args[0], store.ProfileRecord{
				Base:       profileBase,
				Components: profileComponents,
				Output:     profileOutput,
			})
		},
	}
	cmd.Flags().StringVar(&profileBase, "base", "", "base profile to inherit components from")
	cmd.Flags().StringArrayVar(&profileComponents, "component", nil, "component alias or spec, repeatable, pipeline order")
	cmd.Flags().StringVar(&profileOutput, "output", "", "default output path for this profile")
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a profile's fully resolved component list and output path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewStore(profileConfigPath)
			resolved, err := st.ResolveProfile(args[0])
			if err != nil {
				return err
			}
			for _, c := range resolved.Components {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "output =", resolved.Output)
			return nil
		},
	}
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered profile names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewStore(profileConfigPath)
			names, err := st.ListProfiles()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newProfileRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a registered profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewStore(profileConfigPath)
			return st.RemoveProfile(args[0])
		},
	}
}
