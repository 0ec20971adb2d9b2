package editor

import (
	"fmt"

	"github.com/mwantia/modkeep/pkg/db/models"
	"github.com/mwantia/modkeep/pkg/inventory"
	"github.com/mwantia/modkeep/pkg/prompt"
)

// MemberOptions lists every mod with the current members pre-selected.
func MemberOptions(mods []models.Mod, current []uint) []prompt.Option {
	members := inventory.NewSet(current...)
	options := make([]prompt.Option, len(mods))
	for i, mod := range mods {
		options[i] = prompt.Option{
			Label:    mod.Name,
			Selected: members.Has(mod.ID),
		}
	}
	return options
}

// SelectedIDs maps selected option indexes back to mod ids.
func SelectedIDs(mods []models.Mod, selected []int) []uint {
	ids := make([]uint, 0, len(selected))
	for _, i := range selected {
		if i >= 0 && i < len(mods) {
			ids = append(ids, mods[i].ID)
		}
	}
	return ids
}

// MemberSummary describes the pending change of a selection.
func MemberSummary(mods []models.Mod, current []uint) func(selected []int) string {
	return func(selected []int) string {
		delta := inventory.DiffMembers(current, SelectedIDs(mods, selected))
		if delta.Empty() {
			return "no changes"
		}
		return fmt.Sprintf("+%d / -%d", len(delta.ToLink), len(delta.ToUnlink))
	}
}
