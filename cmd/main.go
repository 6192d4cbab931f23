package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.miloapis.com/email-provider-activecampaign/cmd/campaign"
	"go.miloapis.com/email-provider-activecampaign/cmd/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "activecampaign",
		Short:        "ActiveCampaign campaign tool",
		Long:         "Creates mailing lists, contacts, messages and scheduled campaigns through the ActiveCampaign API.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(campaign.CreateCampaignCommand())
	rootCmd.AddCommand(version.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
