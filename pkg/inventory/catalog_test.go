package inventory

import (
	"context"
	"testing"

	"github.com/mwantia/modkeep/pkg/db/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) (*Catalog, store.InventoryStore, *Scanner, string) {
	t.Helper()

	root := t.TempDir()
	scanner, err := NewScanner(root, nil, nil)
	require.NoError(t, err)

	s := newTestStore(t)
	return NewCatalog(s, nopLogger()), s, scanner, root
}

func tagNames(t *testing.T, c *Catalog) []string {
	t.Helper()

	tags, err := c.Tags(context.Background())
	require.NoError(t, err)
	names := []string{}
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"Hair", "Body"}, ParseTags(" Hair, Body ,,Hair"))
	assert.Equal(t, []string{}, ParseTags(""))
	assert.Equal(t, []string{}, ParseTags(" , "))
}

func TestCatalogApplyTagMembersScenario(t *testing.T) {
	c, s, scanner, root := newCatalogFixture(t)
	ctx := context.Background()

	ids := make([]uint, 0, 4)
	for _, dir := range []string{"One", "Two", "Three", "Four"} {
		writeFile(t, root, dir, "a.package", dir)
		ids = append(ids, recordMod(t, s, scanner, dir).ID)
	}

	_, err := c.ApplyTagMembers(ctx, "Body", ids[:3])
	require.NoError(t, err)

	delta, err := c.ApplyTagMembers(ctx, "Body", ids[1:])
	require.NoError(t, err)
	assert.Equal(t, []uint{ids[3]}, delta.ToLink)
	assert.Equal(t, []uint{ids[0]}, delta.ToUnlink)

	members, err := c.TagMembers(ctx, "Body")
	require.NoError(t, err)
	assert.Equal(t, ids[1:], members)

	again, err := c.ApplyTagMembers(ctx, "Body", ids[1:])
	require.NoError(t, err)
	assert.True(t, again.Empty())
}

func TestCatalogApplyTagMembersCollectsEmptyTag(t *testing.T) {
	c, s, scanner, root := newCatalogFixture(t)
	ctx := context.Background()

	writeFile(t, root, "One", "a.package", "one")
	mod := recordMod(t, s, scanner, "One", "Body")

	delta, err := c.ApplyTagMembers(ctx, "Body", nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{mod.ID}, delta.ToUnlink)
	assert.Empty(t, tagNames(t, c))

	members, err := c.TagMembers(ctx, "Body")
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = c.ApplyTagMembers(ctx, "Fresh", nil)
	require.NoError(t, err)
	assert.Empty(t, tagNames(t, c))
}

func TestCatalogApplyTagMembersRollsBack(t *testing.T) {
	c, s, scanner, root := newCatalogFixture(t)
	ctx := context.Background()

	writeFile(t, root, "One", "a.package", "one")
	mod := recordMod(t, s, scanner, "One")

	_, err := c.ApplyTagMembers(ctx, "Body", []uint{mod.ID, 9999})
	assert.Error(t, err)
	assert.Empty(t, tagNames(t, c))
}

func TestCatalogEditFields(t *testing.T) {
	c, s, scanner, root := newCatalogFixture(t)
	ctx := context.Background()

	writeFile(t, root, "One", "a.package", "one")
	mod := recordMod(t, s, scanner, "One")

	require.NoError(t, c.Rename(ctx, mod.ID, "  Renamed "))
	require.NoError(t, c.SetSource(ctx, mod.ID, "https://example.com/new"))
	require.NoError(t, c.SetVersion(ctx, mod.ID, "2.1"))

	got, err := c.Mod(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "https://example.com/new", got.SourceURL)
	assert.Equal(t, "2.1", got.Version)
	assert.Equal(t, "One", got.Directory)
	assert.False(t, got.UpdatedAt.Before(mod.UpdatedAt))

	assert.Error(t, c.Rename(ctx, mod.ID, " "))
	assert.ErrorIs(t, c.SetVersion(ctx, 9999, "1"), store.ErrNotFound)
}

func TestCatalogAddAndRemoveTag(t *testing.T) {
	c, s, scanner, root := newCatalogFixture(t)
	ctx := context.Background()

	writeFile(t, root, "One", "a.package", "one")
	one := recordMod(t, s, scanner, "One")
	writeFile(t, root, "Two", "a.package", "two")
	two := recordMod(t, s, scanner, "Two", "Shared")

	require.NoError(t, c.AddTag(ctx, one.ID, "Hair"))
	require.NoError(t, c.AddTag(ctx, one.ID, "Hair"))
	require.NoError(t, c.AddTag(ctx, one.ID, "Shared"))

	tags, err := c.ModTags(ctx, one.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hair", "Shared"}, tags)

	require.NoError(t, c.RemoveTag(ctx, one.ID, "Hair"))
	require.NoError(t, c.RemoveTag(ctx, one.ID, "Shared"))
	assert.Equal(t, []string{"Shared"}, tagNames(t, c))

	mods, err := c.Mods(ctx, "Shared")
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, two.ID, mods[0].ID)

	assert.ErrorIs(t, c.RemoveTag(ctx, one.ID, "Unknown"), store.ErrNotFound)
}

func TestCatalogSetModTags(t *testing.T) {
	c, s, scanner, root := newCatalogFixture(t)
	ctx := context.Background()

	writeFile(t, root, "One", "a.package", "one")
	mod := recordMod(t, s, scanner, "One", "Hair", "Old")

	diff, err := c.SetModTags(ctx, mod.ID, []string{"Hair", "New"})
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, Sorted(diff.Added))
	assert.Equal(t, []string{"Old"}, Sorted(diff.Removed))
	assert.Equal(t, []string{"Hair"}, Sorted(diff.Common))

	assert.Equal(t, []string{"Hair", "New"}, tagNames(t, c))
}

func TestCatalogUpdateMod(t *testing.T) {
	c, s, scanner, root := newCatalogFixture(t)
	ctx := context.Background()

	writeFile(t, root, "One", "a.package", "one")
	mod := recordMod(t, s, scanner, "One", "Hair")

	version := "3.0"
	require.NoError(t, c.UpdateMod(ctx, mod.ID, ModUpdate{Version: &version, SetTags: true}))

	got, err := c.Mod(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.0", got.Version)
	assert.Equal(t, "One", got.Name)
	assert.Empty(t, tagNames(t, c))

	assert.True(t, ModUpdate{}.Empty())
	assert.False(t, ModUpdate{SetTags: true}.Empty())
}

func TestCatalogDeleteTag(t *testing.T) {
	c, s, scanner, root := newCatalogFixture(t)
	ctx := context.Background()

	writeFile(t, root, "One", "a.package", "one")
	one := recordMod(t, s, scanner, "One", "Body", "Hair")
	writeFile(t, root, "Two", "a.package", "two")
	recordMod(t, s, scanner, "Two", "Body")

	require.NoError(t, c.DeleteTag(ctx, "Body"))
	assert.Equal(t, []string{"Hair"}, tagNames(t, c))

	tags, err := c.ModTags(ctx, one.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hair"}, tags)

	assert.ErrorIs(t, c.DeleteTag(ctx, "Body"), store.ErrNotFound)
}
