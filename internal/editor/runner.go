package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwantia/modkeep/pkg/db/store"
	"github.com/mwantia/modkeep/pkg/inventory"
	"github.com/mwantia/modkeep/pkg/log"
	"github.com/mwantia/modkeep/pkg/prompt"
)

// Console receives the result lines of menu actions.
type Console interface {
	Notice(format string, args ...any)
	Success(format string, args ...any)
	Failure(format string, args ...any)
}

// Runner drives the menu machine against the catalog.
type Runner struct {
	catalog  *inventory.Catalog
	prompter prompt.Prompter
	console  Console
	log      log.LoggerService
}

func NewRunner(catalog *inventory.Catalog, prompter prompt.Prompter, console Console, logger log.LoggerService) *Runner {
	return &Runner{
		catalog:  catalog,
		prompter: prompter,
		console:  console,
		log:      logger,
	}
}

// Run visits states until the stack is empty. A cancelled prompt goes back
// one level, so cancelling the main menu quits.
func (r *Runner) Run(ctx context.Context) error {
	return r.run(ctx, NewStack())
}

func (r *Runner) run(ctx context.Context, stack Stack) error {
	for !stack.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}

		state := stack.Top()
		outcome, err := r.visit(ctx, state)
		switch {
		case err == nil:
		case prompt.IsCancelled(err):
			outcome = Back(1)
		case errors.Is(err, store.ErrNotFound):
			r.console.Failure("%v", err)
			outcome = Back(1)
		default:
			return fmt.Errorf("failed in %s menu: %w", state.Kind, err)
		}

		r.log.Debug("%s -> push=%v pop=%d quit=%t", state.Kind, outcome.Push != nil, outcome.Pop, outcome.Quit)
		stack = Step(stack, outcome)
	}
	return nil
}

func (r *Runner) visit(ctx context.Context, state State) (Outcome, error) {
	switch state.Kind {
	case Main:
		return r.choose(ctx, "What do you want to edit?", MainMenu())

	case TagList:
		tags, err := r.catalog.Tags(ctx)
		if err != nil {
			return Outcome{}, err
		}
		return r.choose(ctx, "Tags", TagListMenu(tags))

	case TagMods:
		mods, err := r.catalog.Mods(ctx, state.Tag)
		if err != nil {
			return Outcome{}, err
		}
		return r.choose(ctx, fmt.Sprintf("Mods tagged '%s'", state.Tag), TagModsMenu(state.Tag, mods))

	case AllMods:
		mods, err := r.catalog.Mods(ctx)
		if err != nil {
			return Outcome{}, err
		}
		return r.choose(ctx, "Mods", AllModsMenu(mods))

	case EditMod:
		mod, err := r.catalog.Mod(ctx, state.ModID)
		if err != nil {
			return Outcome{}, err
		}
		return r.choose(ctx, fmt.Sprintf("Edit '%s'", mod.Name), EditModMenu(*mod))

	case ModTags:
		tags, err := r.catalog.ModTags(ctx, state.ModID)
		if err != nil {
			return Outcome{}, err
		}
		title := "No tags"
		if len(tags) > 0 {
			title = fmt.Sprintf("Tags: %v", tags)
		}
		return r.choose(ctx, title, ModTagsMenu(state.ModID, tags))

	case EditName, EditSource, EditVersion:
		return r.editField(ctx, state)

	case AddTag:
		return r.addTags(ctx, state.ModID)

	case RemoveTag:
		return r.removeTag(ctx, state.ModID)

	case TagMembers:
		emptied, err := r.EditTagMembers(ctx, state.Tag)
		if err != nil {
			return Outcome{}, err
		}
		if emptied {
			// The tag was collected, so its mod list is gone too.
			return Back(2), nil
		}
		return Back(1), nil

	case DeleteTag:
		return r.deleteTag(ctx, state.Tag)
	}

	return Outcome{Quit: true}, nil
}

func (r *Runner) choose(ctx context.Context, title string, choices []Choice) (Outcome, error) {
	idx, err := r.prompter.Select(ctx, title, Labels(choices))
	if err != nil {
		return Outcome{}, err
	}
	if idx < 0 || idx >= len(choices) {
		return Outcome{}, fmt.Errorf("invalid menu choice %d", idx)
	}
	return choices[idx].Outcome, nil
}

func (r *Runner) editField(ctx context.Context, state State) (Outcome, error) {
	mod, err := r.catalog.Mod(ctx, state.ModID)
	if err != nil {
		return Outcome{}, err
	}

	opts := prompt.TextOptions{}
	var apply func(string) error

	switch state.Kind {
	case EditName:
		opts.Title, opts.Default = "Name", mod.Name
		opts.Validate = prompt.Required("Name")
		apply = func(v string) error { return r.catalog.Rename(ctx, mod.ID, v) }
	case EditSource:
		opts.Title, opts.Default = "Source URL", mod.SourceURL
		opts.Validate = prompt.All(prompt.Required("Source URL"), prompt.ValidURL)
		apply = func(v string) error { return r.catalog.SetSource(ctx, mod.ID, v) }
	default:
		opts.Title, opts.Default = "Version", mod.Version
		opts.Validate = prompt.Required("Version")
		apply = func(v string) error { return r.catalog.SetVersion(ctx, mod.ID, v) }
	}

	value, err := r.prompter.Text(ctx, opts)
	if err != nil {
		return Outcome{}, err
	}
	if value == opts.Default {
		return Back(1), nil
	}
	if err := apply(value); err != nil {
		return Outcome{}, err
	}

	r.console.Success("Updated %s of '%s'", opts.Title, mod.Name)
	return Back(1), nil
}

func (r *Runner) addTags(ctx context.Context, modID uint) (Outcome, error) {
	known, err := r.catalog.Tags(ctx)
	if err != nil {
		return Outcome{}, err
	}
	completer := prompt.NewTagCompleter(nil)
	for _, tag := range known {
		completer.Insert(tag.Name)
	}

	input, err := r.prompter.Text(ctx, prompt.TextOptions{
		Title:       "Tags to add",
		Placeholder: "comma separated",
		Suggest:     completer.Suggest,
	})
	if err != nil {
		return Outcome{}, err
	}

	tags := inventory.ParseTags(input)
	for _, tag := range tags {
		if err := r.catalog.AddTag(ctx, modID, tag); err != nil {
			return Outcome{}, err
		}
	}
	if len(tags) > 0 {
		r.console.Success("Added %d tag(s)", len(tags))
	}
	return Back(1), nil
}

func (r *Runner) removeTag(ctx context.Context, modID uint) (Outcome, error) {
	tags, err := r.catalog.ModTags(ctx, modID)
	if err != nil {
		return Outcome{}, err
	}
	if len(tags) == 0 {
		return Back(1), nil
	}

	idx, err := r.prompter.Select(ctx, "Remove which tag?", tags)
	if err != nil {
		return Outcome{}, err
	}
	if idx < 0 || idx >= len(tags) {
		return Outcome{}, fmt.Errorf("invalid tag choice %d", idx)
	}

	if err := r.catalog.RemoveTag(ctx, modID, tags[idx]); err != nil {
		return Outcome{}, err
	}
	r.console.Success("Removed tag '%s'", tags[idx])
	return Back(1), nil
}

func (r *Runner) deleteTag(ctx context.Context, tag string) (Outcome, error) {
	ok, err := r.prompter.Confirm(ctx, fmt.Sprintf("Delete tag '%s' from every mod?", tag), false)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Back(1), nil
	}

	if err := r.catalog.DeleteTag(ctx, tag); err != nil {
		return Outcome{}, err
	}
	r.console.Success("Deleted tag '%s'", tag)
	return Back(2), nil
}

// EditTagMembers lets the user pick the exact member set of a tag, with the
// current members pre-selected, and applies the difference. It reports
// whether the tag ended up without members. Cancelling the selection
// changes nothing and is not an error.
func (r *Runner) EditTagMembers(ctx context.Context, tag string) (bool, error) {
	mods, err := r.catalog.Mods(ctx)
	if err != nil {
		return false, err
	}
	if len(mods) == 0 {
		r.console.Notice("No mods recorded")
		return false, nil
	}
	current, err := r.catalog.TagMembers(ctx, tag)
	if err != nil {
		return false, err
	}

	selected, err := r.prompter.MultiSelect(ctx, prompt.MultiSelectOptions{
		Title:   fmt.Sprintf("Mods tagged '%s'", tag),
		Options: MemberOptions(mods, current),
		Summary: MemberSummary(mods, current),
	})
	if prompt.IsCancelled(err) {
		r.console.Notice("Members of '%s' left unchanged", tag)
		return len(current) == 0, nil
	}
	if err != nil {
		return false, err
	}

	target := SelectedIDs(mods, selected)
	if inventory.DiffMembers(current, target).Empty() {
		r.console.Notice("Nothing to do for '%s'", tag)
		return len(current) == 0, nil
	}

	delta, err := r.catalog.ApplyTagMembers(ctx, tag, target)
	if err != nil {
		return false, err
	}
	r.console.Success("Tag '%s': %d linked, %d unlinked", tag, len(delta.ToLink), len(delta.ToUnlink))
	return len(target) == 0, nil
}
