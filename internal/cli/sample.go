package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datacanvas/pkg/source"
)

// sampleCommand prints the built-in sample records so they can be edited and
// fed back into render.
func (c *CLI) sampleCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the built-in sample records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := source.SampleJSON()
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeArtifact(output, data); err != nil {
				return err
			}
			c.out.success("Wrote sample records")
			c.out.file(output)
			c.out.nextStep("Render them", fmt.Sprintf("%s render %s", appName, output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
