package cmd

import (
	"fmt"

	"github.com/rpgo/household-forecast/internal/config"
	"github.com/spf13/cobra"
)

var flagExampleFormat string

var exampleCmd = &cobra.Command{
	Use:   "example [file]",
	Short: "Write an example configuration",
	Long:  "Write an example configuration to file, choosing YAML or TOML from its extension, or print it to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExample,
}

func init() {
	exampleCmd.Flags().StringVar(&flagExampleFormat, "format", "yaml", "Encoding when printing to stdout: yaml or toml")
	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, args []string) error {
	parser := config.NewInputParser()
	example := parser.CreateExampleConfiguration()
	if len(args) == 1 {
		if err := parser.SaveConfiguration(example, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote example configuration to %s\n", args[0])
		return nil
	}

	var format config.Format
	switch flagExampleFormat {
	case "yaml", "yml":
		format = config.FormatYAML
	case "toml":
		format = config.FormatTOML
	default:
		return fmt.Errorf("unknown example format %q (use yaml or toml)", flagExampleFormat)
	}
	data, err := parser.Marshal(example, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
