package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/render"
)

var renderCmd = &cobra.Command{
	Use:   "render <schema>",
	Short: "Render a schema file or URL as HTML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd, args[0])
	},
}

var (
	renderForm     formFlags
	renderName     string
	renderOutput   string
	renderAction   string
	renderMethod   string
	renderValidate bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderName, "renderer", "r", "", "renderer name (vanilla, json)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (stdout if empty)")
	renderCmd.Flags().StringVar(&renderAction, "action", "", "form action URL (defaults to the create link)")
	renderCmd.Flags().StringVar(&renderMethod, "method", "POST", "form method")
	renderCmd.Flags().BoolVar(&renderValidate, "validate", false, "validate the data and render the errors")
	renderCmd.Flags().IntVar(&renderForm.columns, "columns", 0, "column count")
	renderCmd.Flags().BoolVar(&renderForm.readonly, "readonly", false, "render a read-only view")
	renderCmd.Flags().IntVar(&renderForm.schemaIndex, "schema-index", 0, "schema to select in a multi-schema document")
	renderCmd.Flags().StringVarP(&renderForm.data, "data", "d", "", "JSON record used to populate the form")
}

func runRender(cmd *cobra.Command, location string) error {
	ctx := cmd.Context()

	docs, err := loadSchemas(ctx, location)
	if err != nil {
		return err
	}
	target, err := renderForm.build(ctx, docs)
	if err != nil {
		return err
	}
	if renderValidate {
		target.IsValid()
	}

	registry, err := newRenderers()
	if err != nil {
		return err
	}
	renderer, err := registry.Get(renderName)
	if err != nil {
		return err
	}

	action := renderAction
	if action == "" {
		action = target.CreateURL()
	}
	out, err := renderer.Render(ctx, target.View(), render.RenderOptions{
		Action: action,
		Method: renderMethod,
	})
	if err != nil {
		return err
	}
	logger.Debug("rendered form", "renderer", renderer.Name(), "src", location, "bytes", len(out))
	return writeOutput(renderOutput, out)
}
