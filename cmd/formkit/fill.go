package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/renderers/tui"
)

var fillCmd = &cobra.Command{
	Use:   "fill <schema>",
	Short: "Fill a form interactively and print the record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFill(cmd, args[0])
	},
}

var (
	fillForm     formFlags
	fillFormat   string
	fillOutput   string
	fillAttempts int
)

func init() {
	fillCmd.Flags().StringVarP(&fillFormat, "format", "f", string(tui.OutputFormatJSON), "output format (json, form, pretty)")
	fillCmd.Flags().StringVarP(&fillOutput, "output", "o", "", "output file (stdout if empty)")
	fillCmd.Flags().IntVar(&fillAttempts, "attempts", tui.DefaultMaxAttempts, "prompts per field before giving up")
	fillCmd.Flags().StringVarP(&fillForm.data, "data", "d", "", "JSON record offered as defaults")
	fillCmd.Flags().IntVar(&fillForm.schemaIndex, "schema-index", 0, "schema to fill in a multi-schema document")
}

func runFill(cmd *cobra.Command, location string) error {
	ctx := cmd.Context()

	docs, err := loadSchemas(ctx, location)
	if err != nil {
		return err
	}
	target, err := fillForm.build(ctx, docs)
	if err != nil {
		return err
	}

	filler := tui.New(
		tui.WithOutputFormat(tui.OutputFormat(fillFormat)),
		tui.WithMaxAttempts(fillAttempts),
		tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
		tui.WithLogger(logger),
	)
	out, err := filler.Fill(ctx, target)
	if err != nil {
		return err
	}
	return writeOutput(fillOutput, out)
}
