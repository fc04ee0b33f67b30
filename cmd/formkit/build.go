package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/builder"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/hypermedia"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compose a form from toolbox templates in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

var (
	buildSource  string
	buildToolbox string
	buildPreview string
)

func init() {
	buildCmd.Flags().StringVar(&buildSource, "source", "", "describing schema file or URL")
	buildCmd.Flags().StringVar(&buildToolbox, "toolbox", "", "toolbox template array file or URL")
	buildCmd.Flags().StringVar(&buildPreview, "preview", "", "file the preview is rendered to after each change")
	_ = buildCmd.MarkFlagRequired("source")
}

const (
	menuAddField   = "Add field"
	menuSelect     = "Select field"
	menuProperties = "Edit field properties"
	menuMetadata   = "Edit form metadata"
	menuMoveUp     = "Move field up"
	menuMoveDown   = "Move field down"
	menuClone      = "Clone field"
	menuRemove     = "Remove field"
	menuSave       = "Save"
	menuLoad       = "Load"
	menuClear      = "Clear"
	menuExport     = "Export state"
	menuQuit       = "Quit"
)

var buildMenu = []string{
	menuAddField, menuSelect, menuProperties, menuMetadata, menuMoveUp, menuMoveDown,
	menuClone, menuRemove, menuSave, menuLoad, menuClear, menuExport, menuQuit,
}

type session struct {
	builder  *builder.Builder
	driver   tui.PromptDriver
	filler   *tui.Filler
	renderer render.Renderer
}

func runBuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	driver := tui.NewSurveyDriver(os.Stdout)
	client := hypermedia.NewClient(
		hypermedia.WithBaseURL(cfg.Client.BaseURL),
		hypermedia.WithTimeout(cfg.Client.Timeout),
		hypermedia.WithLogger(logger),
	)
	options := []builder.Option{
		builder.WithSource(buildSource),
		builder.WithToolboxSource(buildToolbox),
		builder.WithClient(client),
		builder.WithDialogs(tui.NewDialogs(driver, logger)),
		builder.WithLogger(logger),
		builder.WithFormOptions(form.WithLocale(localeContext())),
	}
	// Relative hrefs resolve against the base URL through the client; local
	// paths go through the schema loader.
	if cfg.Client.BaseURL == "" && !isURL(buildSource) {
		options = append(options, builder.WithLoader(newLoader()))
	}
	b := builder.New(options...)
	if err := b.LoadAll(ctx); err != nil {
		return err
	}

	registry, err := newRenderers()
	if err != nil {
		return err
	}
	renderer, err := registry.Get("")
	if err != nil {
		return err
	}
	s := &session{
		builder:  b,
		driver:   driver,
		renderer: renderer,
		filler: tui.New(
			tui.WithPromptDriver(driver),
			tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
			tui.WithLogger(logger),
		),
	}
	return s.loop(ctx)
}

func (s *session) loop(ctx context.Context) error {
	for {
		if err := s.writePreview(ctx); err != nil {
			logger.Warn("build: preview not written", "error", err)
		}
		picked, err := s.driver.Select(ctx, tui.SelectConfig{
			Message: s.prompt(),
			Options: buildMenu,
		})
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if buildMenu[picked] == menuQuit {
			if s.builder.Modified() {
				if err := s.driver.Info(ctx, "! unsaved changes discarded"); err != nil {
					return err
				}
			}
			return nil
		}
		if err := s.run(ctx, buildMenu[picked]); err != nil {
			if errors.Is(err, tui.ErrAborted) {
				continue
			}
			if infoErr := s.driver.Info(ctx, "! "+err.Error()); infoErr != nil {
				return infoErr
			}
		}
	}
}

func (s *session) prompt() string {
	selection := s.builder.Selection()
	switch selection.Mode {
	case builder.SelectionField:
		return "Field " + selection.DataKey
	case builder.SelectionForm:
		return "Form"
	default:
		return "Builder"
	}
}

func (s *session) run(ctx context.Context, item string) error {
	b := s.builder
	switch item {
	case menuAddField:
		return s.addField(ctx)
	case menuSelect:
		return s.selectField(ctx)
	case menuProperties:
		return s.editProperties(ctx)
	case menuMetadata:
		return s.editMetadata(ctx)
	case menuMoveUp:
		b.MoveUp(ctx)
	case menuMoveDown:
		b.MoveDown(ctx)
	case menuClone:
		b.Clone(ctx)
	case menuRemove:
		b.Remove(ctx)
	case menuSave:
		b.SaveClick(ctx)
	case menuLoad:
		b.LoadClick(ctx)
	case menuClear:
		b.ClearClick(ctx)
	case menuExport:
		out, err := json.MarshalIndent(b.Export(), "", "  ")
		if err != nil {
			return err
		}
		return s.driver.Info(ctx, string(out))
	}
	return nil
}

func (s *session) addField(ctx context.Context) error {
	toolbox := s.builder.Toolbox()
	if len(toolbox) == 0 {
		return errors.New("toolbox is empty")
	}
	labels := make([]string, len(toolbox))
	for idx, template := range toolbox {
		labels[idx] = template.ID
		if template.Title != "" {
			labels[idx] = fmt.Sprintf("%s (%s)", template.Title, template.ID)
		}
	}
	picked, err := s.driver.Select(ctx, tui.SelectConfig{Message: "Tool", Options: labels})
	if err != nil {
		return err
	}
	if err := s.builder.SelectTool(toolbox[picked].ID); err != nil {
		return err
	}
	key, err := s.builder.AddSelectedTool(ctx)
	if err != nil {
		return err
	}
	logger.Debug("build: field added", "key", key)
	return nil
}

func (s *session) selectField(ctx context.Context) error {
	keys := []string{"(form)"}
	for _, column := range s.builder.Preview().View().Columns {
		for _, control := range column.Controls {
			keys = append(keys, control.Key)
		}
	}
	picked, err := s.driver.Select(ctx, tui.SelectConfig{Message: "Select", Options: keys})
	if err != nil {
		return err
	}
	if picked == 0 {
		s.builder.ClickForm()
		return nil
	}
	s.builder.ClickField(ctx, keys[picked])
	return nil
}

func (s *session) editProperties(ctx context.Context) error {
	if s.builder.Selection().Mode != builder.SelectionField {
		return errors.New("select a field first")
	}
	properties := s.builder.Properties()
	if properties == nil {
		return errors.New("selected field has no toolbox template")
	}
	if _, err := s.filler.Fill(ctx, properties); err != nil {
		return err
	}
	return s.builder.ApplyProperties(ctx, nil)
}

func (s *session) editMetadata(ctx context.Context) error {
	s.builder.ClickForm()
	metadata := s.builder.Metadata()
	if _, err := s.filler.Fill(ctx, metadata); err != nil {
		return err
	}
	for key, value := range metadata.GetData() {
		s.builder.UpdateMetadata(key, value)
	}
	return nil
}

func (s *session) writePreview(ctx context.Context) error {
	if buildPreview == "" {
		return nil
	}
	out, err := s.renderer.Render(ctx, s.builder.Preview().View(), render.RenderOptions{})
	if err != nil {
		return err
	}
	return os.WriteFile(buildPreview, out, 0o644)
}

func isURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
