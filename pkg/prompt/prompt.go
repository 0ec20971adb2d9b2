// Package prompt defines the interactive collaborator used by the
// reconciler and the edit menu, together with a huh based implementation.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrCancelled is returned by every Prompter method when the user aborts
// the prompt. Callers treat it as "no change", never as a failure.
var ErrCancelled = errors.New("prompt cancelled")

type TextOptions struct {
	Title       string
	Placeholder string
	// Default pre-fills the input and is kept when the user submits it unchanged.
	Default  string
	Validate func(string) error
	// Suggest returns completions for the current input.
	Suggest func(input string) []string
}

type Option struct {
	Label    string
	Selected bool
}

type MultiSelectOptions struct {
	Title   string
	Options []Option
	// Summary renders a live description of the current selection.
	Summary func(selected []int) string
}

// Prompter asks the user for input. Select and MultiSelect work with
// option indexes.
type Prompter interface {
	Text(ctx context.Context, opts TextOptions) (string, error)
	Confirm(ctx context.Context, title string, def bool) (bool, error)
	Select(ctx context.Context, title string, options []string) (int, error)
	MultiSelect(ctx context.Context, opts MultiSelectOptions) ([]int, error)
}

// IsCancelled reports whether err stems from an aborted prompt.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// Required rejects blank input.
func Required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// ValidURL accepts absolute URLs with a scheme and host.
func ValidURL(s string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("failed to validate URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("failed to validate URL: '%s' is not absolute", s)
	}
	return nil
}

// All chains validators, returning the first error.
func All(validators ...func(string) error) func(string) error {
	return func(s string) error {
		for _, v := range validators {
			if err := v(s); err != nil {
				return err
			}
		}
		return nil
	}
}
