package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ampere",
		Short: "Electrical installation design calculators",
	}

	rootCmd.AddCommand(cableCmd())
	rootCmd.AddCommand(derateCmd())
	rootCmd.AddCommand(demandCmd())
	rootCmd.AddCommand(lightingCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func cableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cable [input-file]",
		Short: "Size a cable for design current, length and installation method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCable(args[0], cmd.OutOrStdout())
		},
	}
}

func derateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "derate [input-file]",
		Short: "Apply grouping, ambient, insulation and burial correction factors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerate(args[0], cmd.OutOrStdout())
		},
	}
}

func demandCmd() *cobra.Command {
	var floorsPath string

	cmd := &cobra.Command{
		Use:   "demand [input-file]",
		Short: "Compute the maximum demand of an installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemand(args[0], floorsPath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&floorsPath, "floors", "f", "", "YAML file of diversity floors per category")
	return cmd
}

func lightingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lighting [input-file]",
		Short: "Compute lighting load by the lumen method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLighting(args[0], cmd.OutOrStdout())
		},
	}
}
