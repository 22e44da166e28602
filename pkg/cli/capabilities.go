package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"digital.vasic.mobilelogin/pkg/config"
	"digital.vasic.mobilelogin/pkg/env"
)

func newCapabilitiesCmd(deps Deps) *cobra.Command {
	flags := &SetupFlags{}
	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Print the session capabilities and Appium endpoint for a platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := flags.resolve(deps.loader())
			if err != nil {
				return err
			}
			caps, err := config.ResolveCapabilities(st.app.Platform, st.loader)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(caps, "", "  ")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# platform: %s\n", st.app.Platform)
			fmt.Fprintf(out, "# appium: %s\n", env.RedactURL(st.app.AppiumURL()))
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
	addSetupFlags(cmd, flags)
	return cmd
}
