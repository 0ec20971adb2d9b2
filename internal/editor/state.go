// Package editor implements the interactive edit menu as a finite state
// machine. Transitions and menus are pure; the Runner performs all store
// and prompt calls.
package editor

import (
	"fmt"

	"github.com/mwantia/modkeep/pkg/db/models"
)

type Kind int

const (
	Main Kind = iota
	TagList
	TagMods
	AllMods
	EditMod
	ModTags
	EditName
	EditSource
	EditVersion
	AddTag
	RemoveTag
	TagMembers
	DeleteTag
	Quit
)

func (k Kind) String() string {
	switch k {
	case Main:
		return "main"
	case TagList:
		return "tag-list"
	case TagMods:
		return "tag-mods"
	case AllMods:
		return "all-mods"
	case EditMod:
		return "edit-mod"
	case ModTags:
		return "mod-tags"
	case EditName:
		return "edit-name"
	case EditSource:
		return "edit-source"
	case EditVersion:
		return "edit-version"
	case AddTag:
		return "add-tag"
	case RemoveTag:
		return "remove-tag"
	case TagMembers:
		return "tag-members"
	case DeleteTag:
		return "delete-tag"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is one screen of the menu. Tag and ModID carry the subject of the
// screen where one exists.
type State struct {
	Kind  Kind
	Tag   string
	ModID uint
}

// Stack holds the visited states; the last element is the current one.
type Stack []State

func NewStack() Stack {
	return Stack{{Kind: Main}}
}

// Top returns the current state, or Quit when the stack is empty.
func (s Stack) Top() State {
	if len(s) == 0 {
		return State{Kind: Quit}
	}
	return s[len(s)-1]
}

func (s Stack) Done() bool {
	return len(s) == 0
}

// Outcome is what a visited state asks the machine to do next.
type Outcome struct {
	Push *State
	Pop  int
	Quit bool
}

func Push(state State) Outcome {
	return Outcome{Push: &state}
}

func Back(levels int) Outcome {
	return Outcome{Pop: levels}
}

// Step applies an outcome to a stack and returns the new stack. Pops are
// applied before the push; popping past the bottom empties the stack.
func Step(stack Stack, o Outcome) Stack {
	if o.Quit {
		return Stack{}
	}

	n := len(stack) - o.Pop
	if n < 0 {
		n = 0
	}
	next := make(Stack, n, n+1)
	copy(next, stack[:n])

	if o.Push != nil {
		if o.Push.Kind == Quit {
			return Stack{}
		}
		next = append(next, *o.Push)
	}
	return next
}

// Choice is one entry of a menu.
type Choice struct {
	Label   string
	Outcome Outcome
}

func back() Choice {
	return Choice{Label: "Back", Outcome: Back(1)}
}

func MainMenu() []Choice {
	return []Choice{
		{Label: "Browse tags", Outcome: Push(State{Kind: TagList})},
		{Label: "Browse all mods", Outcome: Push(State{Kind: AllMods})},
		{Label: "Quit", Outcome: Outcome{Quit: true}},
	}
}

func TagListMenu(tags []models.Tag) []Choice {
	choices := make([]Choice, 0, len(tags)+1)
	for _, tag := range tags {
		choices = append(choices, Choice{
			Label:   tag.Name,
			Outcome: Push(State{Kind: TagMods, Tag: tag.Name}),
		})
	}
	return append(choices, back())
}

func TagModsMenu(tag string, mods []models.Mod) []Choice {
	choices := modChoices(mods)
	return append(choices,
		Choice{Label: fmt.Sprintf("Edit members of '%s'", tag), Outcome: Push(State{Kind: TagMembers, Tag: tag})},
		Choice{Label: fmt.Sprintf("Delete tag '%s'", tag), Outcome: Push(State{Kind: DeleteTag, Tag: tag})},
		back(),
	)
}

func AllModsMenu(mods []models.Mod) []Choice {
	return append(modChoices(mods), back())
}

func modChoices(mods []models.Mod) []Choice {
	choices := make([]Choice, 0, len(mods)+3)
	for _, mod := range mods {
		choices = append(choices, Choice{
			Label:   mod.Name,
			Outcome: Push(State{Kind: EditMod, ModID: mod.ID}),
		})
	}
	return choices
}

func EditModMenu(mod models.Mod) []Choice {
	return []Choice{
		{Label: "Name: " + mod.Name, Outcome: Push(State{Kind: EditName, ModID: mod.ID})},
		{Label: "Source: " + mod.SourceURL, Outcome: Push(State{Kind: EditSource, ModID: mod.ID})},
		{Label: "Version: " + mod.Version, Outcome: Push(State{Kind: EditVersion, ModID: mod.ID})},
		{Label: "Tags", Outcome: Push(State{Kind: ModTags, ModID: mod.ID})},
		back(),
	}
}

func ModTagsMenu(modID uint, tags []string) []Choice {
	choices := []Choice{
		{Label: "Add tags", Outcome: Push(State{Kind: AddTag, ModID: modID})},
	}
	if len(tags) > 0 {
		choices = append(choices, Choice{Label: "Remove a tag", Outcome: Push(State{Kind: RemoveTag, ModID: modID})})
	}
	return append(choices, back())
}

// Labels returns the labels of choices in order.
func Labels(choices []Choice) []string {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	return labels
}
