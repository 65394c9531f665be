package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madstone-tech/pylon/internal/adapters/highlight"
)

var buildSyntaxThemeCmd = &cobra.Command{
	Use:     "build-syntax-theme <theme>",
	Short:   "Print the CSS stylesheet for one syntax highlighting theme",
	Long:    "Generate a standalone CSS file for a syntax highlighting theme and print it to stdout, without building a site.",
	GroupID: "building",
	Args:    cobra.ExactArgs(1),
	Example: `  pylon build-syntax-theme github > public/syntax.css
  pylon build-syntax-theme monokai`,
	RunE: runBuildSyntaxTheme,
}

func init() {
	rootCmd.AddCommand(buildSyntaxThemeCmd)
}

func runBuildSyntaxTheme(cmd *cobra.Command, args []string) error {
	h := highlight.New(args[0])
	css, err := h.GenerateCSSTheme(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), css)
	return nil
}
