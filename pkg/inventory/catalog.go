package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwantia/modkeep/pkg/db/models"
	"github.com/mwantia/modkeep/pkg/db/store"
	"github.com/mwantia/modkeep/pkg/log"
)

// Catalog edits the recorded metadata of mods and tags. Every mutation
// runs in its own transaction and garbage-collects tags left without links.
type Catalog struct {
	store store.InventoryStore
	log   log.LoggerService
}

func NewCatalog(s store.InventoryStore, logger log.LoggerService) *Catalog {
	return &Catalog{
		store: s,
		log:   logger,
	}
}

// ModUpdate lists the fields to change. Nil fields are left untouched and
// Tags is only applied when SetTags is true, so an empty list clears them.
type ModUpdate struct {
	Name      *string
	SourceURL *string
	Version   *string
	Tags      []string
	SetTags   bool
}

// Empty reports whether the update touches no field.
func (u ModUpdate) Empty() bool {
	return u.Name == nil && u.SourceURL == nil && u.Version == nil && !u.SetTags
}

// ParseTags splits a comma separated tag list, dropping blanks and
// duplicates while keeping the input order.
func ParseTags(input string) []string {
	seen := make(Set[string])
	tags := []string{}
	for _, part := range strings.Split(input, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen.Has(tag) {
			continue
		}
		seen.Add(tag)
		tags = append(tags, tag)
	}
	return tags
}

func (c *Catalog) Mods(ctx context.Context, tags ...string) ([]models.Mod, error) {
	if len(tags) == 0 {
		return c.store.ListMods(ctx)
	}
	return c.store.ListModsByTags(ctx, tags)
}

func (c *Catalog) Mod(ctx context.Context, id uint) (*models.Mod, error) {
	return c.store.GetMod(ctx, id)
}

func (c *Catalog) ModByName(ctx context.Context, name string) (*models.Mod, error) {
	return c.store.GetModByName(ctx, name)
}

// ModTags returns the tag names of a mod in sorted order.
func (c *Catalog) ModTags(ctx context.Context, id uint) ([]string, error) {
	tags, err := c.store.GetModTags(ctx, id)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names, nil
}

func (c *Catalog) ModHashes(ctx context.Context, id uint) (map[string]string, error) {
	return c.store.GetModHashes(ctx, id)
}

func (c *Catalog) Tags(ctx context.Context) ([]models.Tag, error) {
	return c.store.ListTags(ctx)
}

func (c *Catalog) TagsWithMods(ctx context.Context, names ...string) ([]models.TagWithMods, error) {
	return c.store.ListTagsWithMods(ctx, names)
}

// TagMembers returns the mod ids linked to a tag. An unknown tag has no
// members.
func (c *Catalog) TagMembers(ctx context.Context, name string) ([]uint, error) {
	tag, err := c.store.GetTagByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return []uint{}, nil
	}
	if err != nil {
		return nil, err
	}
	return c.store.GetTagMembers(ctx, tag.ID)
}

func (c *Catalog) Rename(ctx context.Context, id uint, name string) error {
	return c.UpdateMod(ctx, id, ModUpdate{Name: &name})
}

func (c *Catalog) SetSource(ctx context.Context, id uint, sourceURL string) error {
	return c.UpdateMod(ctx, id, ModUpdate{SourceURL: &sourceURL})
}

func (c *Catalog) SetVersion(ctx context.Context, id uint, version string) error {
	return c.UpdateMod(ctx, id, ModUpdate{Version: &version})
}

// UpdateMod applies every field of u to a mod in one transaction.
func (c *Catalog) UpdateMod(ctx context.Context, id uint, u ModUpdate) error {
	return c.store.Transaction(ctx, func(tx store.InventoryStore) error {
		mod, err := tx.GetMod(ctx, id)
		if err != nil {
			return err
		}

		if u.Name != nil {
			name := strings.TrimSpace(*u.Name)
			if name == "" {
				return fmt.Errorf("mod name must not be empty")
			}
			mod.Name = name
		}
		if u.SourceURL != nil {
			mod.SourceURL = strings.TrimSpace(*u.SourceURL)
		}
		if u.Version != nil {
			mod.Version = strings.TrimSpace(*u.Version)
		}

		if u.SetTags {
			if _, err := setModTags(ctx, tx, mod.ID, u.Tags); err != nil {
				return err
			}
		}

		if err := tx.UpdateMod(ctx, mod); err != nil {
			return fmt.Errorf("failed to update mod '%s': %w", mod.Name, err)
		}
		return nil
	})
}

func (c *Catalog) AddTag(ctx context.Context, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("tag name must not be empty")
	}

	return c.store.Transaction(ctx, func(tx store.InventoryStore) error {
		mod, err := tx.GetMod(ctx, id)
		if err != nil {
			return err
		}
		tag, err := tx.GetOrCreateTag(ctx, name)
		if err != nil {
			return err
		}
		if err := tx.LinkModTag(ctx, mod.ID, tag.ID); err != nil {
			return err
		}
		return tx.UpdateMod(ctx, mod)
	})
}

// RemoveTag unlinks a tag from a mod and deletes the tag when it was its
// last link.
func (c *Catalog) RemoveTag(ctx context.Context, id uint, name string) error {
	return c.store.Transaction(ctx, func(tx store.InventoryStore) error {
		mod, err := tx.GetMod(ctx, id)
		if err != nil {
			return err
		}
		tag, err := tx.GetTagByName(ctx, name)
		if err != nil {
			return err
		}
		if err := tx.UnlinkModTag(ctx, mod.ID, tag.ID); err != nil {
			return err
		}
		if err := c.cleanup(ctx, tx); err != nil {
			return err
		}
		return tx.UpdateMod(ctx, mod)
	})
}

// SetModTags replaces the tags of a mod and returns how the tag set changed.
func (c *Catalog) SetModTags(ctx context.Context, id uint, tags []string) (Diff[string], error) {
	var diff Diff[string]
	err := c.store.Transaction(ctx, func(tx store.InventoryStore) error {
		mod, err := tx.GetMod(ctx, id)
		if err != nil {
			return err
		}
		if diff, err = setModTags(ctx, tx, mod.ID, tags); err != nil {
			return err
		}
		return tx.UpdateMod(ctx, mod)
	})
	return diff, err
}

func setModTags(ctx context.Context, tx store.InventoryStore, modID uint, tags []string) (Diff[string], error) {
	current, err := tx.GetModTags(ctx, modID)
	if err != nil {
		return Diff[string]{}, err
	}

	ids := make(map[string]uint, len(current))
	for _, tag := range current {
		ids[tag.Name] = tag.ID
	}

	diff := DiffSets(KeySet(ids), NewSet(ParseTags(strings.Join(tags, ","))...))

	for _, name := range Sorted(diff.Added) {
		tag, err := tx.GetOrCreateTag(ctx, name)
		if err != nil {
			return diff, err
		}
		if err := tx.LinkModTag(ctx, modID, tag.ID); err != nil {
			return diff, err
		}
	}
	for _, name := range Sorted(diff.Removed) {
		if err := tx.UnlinkModTag(ctx, modID, ids[name]); err != nil {
			return diff, err
		}
	}

	if len(diff.Removed) > 0 {
		if _, err := tx.CleanupTags(ctx); err != nil {
			return diff, fmt.Errorf("failed to clean up tags: %w", err)
		}
	}
	return diff, nil
}

// DeleteTag unlinks a tag from every mod and deletes it.
func (c *Catalog) DeleteTag(ctx context.Context, name string) error {
	return c.store.Transaction(ctx, func(tx store.InventoryStore) error {
		tag, err := tx.GetTagByName(ctx, name)
		if err != nil {
			return err
		}
		if err := tx.DeleteTag(ctx, tag.ID); err != nil {
			return fmt.Errorf("failed to delete tag '%s': %w", name, err)
		}
		c.log.Info("Deleted tag '%s'", name)
		return nil
	})
}

// ApplyTagMembers makes target the exact member set of the named tag,
// creating the tag when needed. Current members are read inside the
// transaction so the delta is computed against committed state.
func (c *Catalog) ApplyTagMembers(ctx context.Context, name string, target []uint) (TagDelta, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TagDelta{}, fmt.Errorf("tag name must not be empty")
	}

	var delta TagDelta
	err := c.store.Transaction(ctx, func(tx store.InventoryStore) error {
		tag, err := tx.GetOrCreateTag(ctx, name)
		if err != nil {
			return err
		}
		current, err := tx.GetTagMembers(ctx, tag.ID)
		if err != nil {
			return err
		}

		delta = DiffMembers(current, target)
		for _, modID := range delta.ToLink {
			if err := tx.LinkModTag(ctx, modID, tag.ID); err != nil {
				return fmt.Errorf("failed to link mod %d to '%s': %w", modID, name, err)
			}
		}
		for _, modID := range delta.ToUnlink {
			if err := tx.UnlinkModTag(ctx, modID, tag.ID); err != nil {
				return fmt.Errorf("failed to unlink mod %d from '%s': %w", modID, name, err)
			}
		}

		return c.cleanup(ctx, tx)
	})
	if err != nil {
		return TagDelta{}, err
	}

	c.log.Info("Applied tag '%s': %d linked, %d unlinked", name, len(delta.ToLink), len(delta.ToUnlink))
	return delta, nil
}

func (c *Catalog) cleanup(ctx context.Context, tx store.InventoryStore) error {
	removed, err := tx.CleanupTags(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean up tags: %w", err)
	}
	if removed > 0 {
		c.log.Debug("Removed %d unused tag(s)", removed)
	}
	return nil
}
