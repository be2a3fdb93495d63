package models

import (
	"context"
	"errors"
	"fmt"
)

// Error taxonomy shared by the pipeline stages. Stage errors wrap one of these with %w.
var (
	// ErrEmptyCorpus means there were no sections to rank or vectors to index.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrNoContent means a document yielded zero sections.
	ErrNoContent = errors.New("no content")
	// ErrInvalidInput means malformed parameters, e.g. a non-positive top-k.
	ErrInvalidInput = errors.New("invalid input")
	// ErrModelFailure means the embedding or generation backend failed.
	ErrModelFailure = errors.New("model failure")
)

// BackendError wraps err from an embedding or generation backend as
// ErrModelFailure. If ctx is already done the context error is wrapped
// instead, so a cancelled call is not blamed on the model.
func BackendError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrModelFailure, err)
}

// Classify returns a short, stable label for err suitable for the ledger and API responses.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, ErrNoContent):
		return "no_content"
	case errors.Is(err, ErrEmptyCorpus):
		return "empty_corpus"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrModelFailure):
		return "model_failure"
	default:
		return "internal"
	}
}
