package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/validation"
)

var errInvalid = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate <schema>",
	Short: "Check a schema document and optionally a record against it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args[0])
	},
}

var validateForm formFlags

func init() {
	validateCmd.Flags().StringVarP(&validateForm.data, "data", "d", "", "JSON record to validate")
	validateCmd.Flags().IntVar(&validateForm.schemaIndex, "schema-index", 0, "schema to validate against in a multi-schema document")
}

func runValidate(cmd *cobra.Command, location string) error {
	ctx := cmd.Context()

	doc, err := loadDocument(ctx, location)
	if err != nil {
		return err
	}
	result := validation.ValidateDocument(doc.Raw(), doc.Encoding())
	if !result.Valid {
		return report(result)
	}
	if validateForm.data == "" {
		fmt.Fprintf(os.Stdout, "%s: schema is valid\n", location)
		return nil
	}

	docs, err := doc.Schemas()
	if err != nil {
		return err
	}
	target, err := validateForm.build(ctx, docs)
	if err != nil {
		return err
	}
	if !target.IsValid() {
		out, err := json.MarshalIndent(render.FromIssues(target.Issues()), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))
		return errInvalid
	}
	out, err := json.MarshalIndent(target.GetData(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

func report(result validation.Result) error {
	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stdout, "%s: %s (%s)\n", issue.Path, issue.Message, issue.Code)
	}
	return fmt.Errorf("%w: %d issue(s)", errInvalid, len(result.Issues))
}
