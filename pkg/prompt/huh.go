package prompt

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

var _ Prompter = (*HuhPrompter)(nil)

// HuhPrompter implements Prompter with charmbracelet/huh forms.
type HuhPrompter struct {
	accessible bool
	theme      *huh.Theme
}

// NewHuhPrompter creates a prompter. Accessible mode is forced when stdin
// is not a terminal so prompts still work when input is piped.
func NewHuhPrompter(accessible bool) *HuhPrompter {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		accessible = true
	}
	return &HuhPrompter{
		accessible: accessible,
		theme:      huh.ThemeCharm(),
	}
}

func (p *HuhPrompter) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(p.theme).
		WithAccessible(p.accessible)

	return formError(ctx, form.RunWithContext(ctx))
}

// formError maps an abort to ErrCancelled unless the context ended, in
// which case the context error wins and the whole run stops.
func formError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

func (p *HuhPrompter) Text(ctx context.Context, opts TextOptions) (string, error) {
	value := opts.Default

	input := huh.NewInput().
		Title(opts.Title).
		Placeholder(opts.Placeholder).
		Value(&value)

	if opts.Validate != nil {
		input = input.Validate(opts.Validate)
	}
	if opts.Suggest != nil {
		input = input.SuggestionsFunc(func() []string {
			return opts.Suggest(value)
		}, &value)
	}

	if err := p.run(ctx, input); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func (p *HuhPrompter) Confirm(ctx context.Context, title string, def bool) (bool, error) {
	value := def

	confirm := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	if err := p.run(ctx, confirm); err != nil {
		return false, err
	}
	return value, nil
}

func (p *HuhPrompter) Select(ctx context.Context, title string, options []string) (int, error) {
	choice := 0

	huhOpts := make([]huh.Option[int], len(options))
	for i, label := range options {
		huhOpts[i] = huh.NewOption(label, i)
	}

	sel := huh.NewSelect[int]().
		Title(title).
		Options(huhOpts...).
		Value(&choice)

	if err := p.run(ctx, sel); err != nil {
		return -1, err
	}
	return choice, nil
}

func (p *HuhPrompter) MultiSelect(ctx context.Context, opts MultiSelectOptions) ([]int, error) {
	var selected []int

	huhOpts := make([]huh.Option[int], len(opts.Options))
	for i, opt := range opts.Options {
		o := huh.NewOption(opt.Label, i)
		if opt.Selected {
			o = o.Selected(true)
		}
		huhOpts[i] = o
	}

	sel := huh.NewMultiSelect[int]().
		Title(opts.Title).
		Options(huhOpts...).
		Filterable(true).
		Value(&selected)

	if opts.Summary != nil {
		sel = sel.DescriptionFunc(func() string {
			return opts.Summary(selected)
		}, &selected)
	}

	if err := p.run(ctx, sel); err != nil {
		return nil, err
	}
	return selected, nil
}
