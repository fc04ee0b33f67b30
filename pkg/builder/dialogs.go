package builder

import (
	"context"
	"log/slog"
)

// Answer is the button a user picked in a confirmation dialog.
type Answer string

const (
	AnswerYes    Answer = "Yes"
	AnswerNo     Answer = "No"
	AnswerCancel Answer = "Cancel"
)

// Confirmation describes a yes/no question.
type Confirmation struct {
	Title   string
	Message string
}

// Dialogs shows modal dialogs. Confirm may answer asynchronously; the builder
// keeps a guard per action until answer runs.
type Dialogs interface {
	Confirm(ctx context.Context, c Confirmation, answer func(Answer))
	Alert(ctx context.Context, title, message string)
}

// Action names a guarded builder action.
type Action string

const (
	ActionClear  Action = "clear"
	ActionLoad   Action = "load"
	ActionRemove Action = "remove"
)

const (
	msgSaveModified = "Do you want to save the modified file?"
	msgRemoveField  = "Are you sure you want to remove this field from the form?"
	msgSaved        = "The form has been saved!"
	msgSaveFailed   = "Failed to save the form!"
	msgLoadFailed   = "Failed to load the form!"
	msgNotModified  = "The form has not been modified"
)

// logDialogs answers every confirmation with Cancel and logs alerts. It is
// used when no Dialogs implementation is configured.
type logDialogs struct {
	logger *slog.Logger
}

func (d logDialogs) Confirm(_ context.Context, c Confirmation, answer func(Answer)) {
	d.logger.Warn("builder: confirmation dismissed", "title", c.Title, "message", c.Message)
	answer(AnswerCancel)
}

func (d logDialogs) Alert(_ context.Context, title, message string) {
	d.logger.Info("builder: alert", "title", title, "message", message)
}
