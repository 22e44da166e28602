package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"digital.vasic.mobilelogin/pkg/registry"
	"digital.vasic.mobilelogin/pkg/suite"
)

func newScenariosCmd(deps Deps) *cobra.Command {
	flags := &SetupFlags{}
	var match string
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the suite's scenarios in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := flags.resolve(deps.loader())
			if err != nil {
				return err
			}
			reg := registry.NewRegistry()
			if err := suite.Register(reg, st.fixtures); err != nil {
				return err
			}
			list := reg.List()
			if match != "" {
				if list, err = reg.Match(match); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tNAME")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID(), s.Category(), s.Name())
			}
			return w.Flush()
		},
	}
	addSetupFlags(cmd, flags)
	cmd.Flags().StringVar(&match, "match", "", "only list scenarios whose ID or name matches this regexp")
	return cmd
}
