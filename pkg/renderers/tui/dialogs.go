package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goliatone/go-formkit/pkg/builder"
)

var answers = []builder.Answer{builder.AnswerYes, builder.AnswerNo, builder.AnswerCancel}

// Dialogs answers builder confirmations and alerts from the terminal. Confirm
// blocks until the user picks an option, then calls answer synchronously.
type Dialogs struct {
	driver PromptDriver
	logger *slog.Logger
}

var _ builder.Dialogs = (*Dialogs)(nil)

// NewDialogs wraps driver. A nil driver uses survey prompts.
func NewDialogs(driver PromptDriver, logger *slog.Logger) *Dialogs {
	if driver == nil {
		driver = NewSurveyDriver(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dialogs{driver: driver, logger: logger}
}

// Confirm asks c.Message with Yes, No and Cancel. Aborted or failed prompts
// answer Cancel so the guarded action is released.
func (d *Dialogs) Confirm(ctx context.Context, c builder.Confirmation, answer func(builder.Answer)) {
	labels := make([]string, len(answers))
	for idx, option := range answers {
		labels[idx] = string(option)
	}
	message := c.Message
	if c.Title != "" {
		message = c.Title + ": " + c.Message
	}
	picked, err := d.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: 0})
	if err != nil || picked < 0 || picked >= len(answers) {
		if err != nil && !errors.Is(err, ErrAborted) {
			d.logger.Warn("tui: confirmation failed", "title", c.Title, "error", err)
		}
		answer(builder.AnswerCancel)
		return
	}
	answer(answers[picked])
}

// Alert prints title and message.
func (d *Dialogs) Alert(ctx context.Context, title, message string) {
	text := message
	if title != "" {
		text = title + ": " + message
	}
	if err := d.driver.Info(ctx, text); err != nil {
		d.logger.Warn("tui: alert failed", "title", title, "error", err)
	}
}
