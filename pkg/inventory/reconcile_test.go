package inventory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwantia/modkeep/pkg/db/store"
	"github.com/mwantia/modkeep/pkg/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reconcileFixture struct {
	root     string
	store    store.InventoryStore
	scanner  *Scanner
	console  *recordingConsole
	prompter *scriptedPrompter
}

func newReconcileFixture(t *testing.T) *reconcileFixture {
	t.Helper()

	root := t.TempDir()
	scanner, err := NewScanner(root, nil, []string{"mod_data"})
	require.NoError(t, err)

	return &reconcileFixture{
		root:    root,
		store:   newTestStore(t),
		scanner: scanner,
		console: &recordingConsole{},
	}
}

func (f *reconcileFixture) reconcile(t *testing.T, opts Options, answers ...answer) Summary {
	t.Helper()

	f.prompter = newPrompter(t, answers...)
	r := NewReconciler(f.store, f.scanner, f.prompter, f.console, nopLogger())
	r.now = func() time.Time { return time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC) }

	summary, err := r.Reconcile(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, f.prompter.answers, "unused answers")
	return summary
}

func TestClassifyIsTotal(t *testing.T) {
	cls := Classify(
		[]string{"Hair", "Body", "Shoes"},
		[]string{"Body", "Eyes", "Shoes"},
	)

	assert.Equal(t, []string{"Hair"}, cls.New)
	assert.Equal(t, []string{"Eyes"}, cls.Missing)
	assert.Equal(t, []string{"Body", "Shoes"}, cls.Existing)

	empty := Classify(nil, nil)
	assert.Empty(t, empty.New)
	assert.Empty(t, empty.Missing)
	assert.Empty(t, empty.Existing)
}

func TestOptionsRejectConflictingModes(t *testing.T) {
	assert.ErrorIs(t, Options{Fix: true, SyncHashes: true}.Validate(), ErrConflictingModes)
	assert.NoError(t, Options{Verify: true, Fix: true}.Validate())

	f := newReconcileFixture(t)
	r := NewReconciler(f.store, f.scanner, newPrompter(t), f.console, nopLogger())
	_, err := r.Reconcile(context.Background(), Options{Fix: true, SyncHashes: true})
	assert.ErrorIs(t, err, ErrConflictingModes)
}

func TestReconcileReportOnly(t *testing.T) {
	f := newReconcileFixture(t)
	ctx := context.Background()

	writeFile(t, f.root, "Body", "body.package", "body")
	recordMod(t, f.store, f.scanner, "Body")
	writeFile(t, f.root, "Gone", "gone.package", "gone")
	recordMod(t, f.store, f.scanner, "Gone")
	require.NoError(t, removeDir(f.root, "Gone"))
	writeFile(t, f.root, "Hair", "hair.package", "hair")
	writeFile(t, f.root, "mod_data", "cache.package", "cache")

	summary := f.reconcile(t, Options{})

	assert.Equal(t, 1, summary.NewDirs)
	assert.Equal(t, 1, summary.MissingDirs)
	assert.Equal(t, 1, summary.ExistingDirs)
	assert.Zero(t, summary.Added+summary.Removed+summary.Updated+summary.Validated)

	mods, err := f.store.ListMods(ctx)
	require.NoError(t, err)
	assert.Len(t, mods, 2)
	assert.Contains(t, f.console.lines, "warning New mod directory 'Hair' is not recorded")
	assert.Contains(t, f.console.lines, "warning Mod 'Gone' is missing its directory 'Gone'")
}

func TestReconcileAddsNewMod(t *testing.T) {
	f := newReconcileFixture(t)
	ctx := context.Background()

	writeFile(t, f.root, "Hair", "hair.package", "hair")
	writeFile(t, f.root, "Hair", "hair.ts4script", "script")

	summary := f.reconcile(t, Options{Fix: true},
		answer{confirm: true},
		answer{text: "Long Hair"},
		answer{text: "https://example.com/hair"},
		answer{},
		answer{text: "Hair, Female, Hair"},
	)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, []string{"Add new mod directory 'Hair'?", "Name", "Source URL", "Version", "Tags"}, f.prompter.titles)

	mod, err := f.store.GetModByName(ctx, "Long Hair")
	require.NoError(t, err)
	assert.Equal(t, "Hair", mod.Directory)
	assert.Equal(t, "https://example.com/hair", mod.SourceURL)
	assert.Equal(t, "050324", mod.Version)

	hashes, err := f.store.GetModHashes(ctx, mod.ID)
	require.NoError(t, err)
	scanned, err := f.scanner.Scan("Hair")
	require.NoError(t, err)
	assert.Equal(t, map[string]string(scanned), hashes)

	tags, err := f.store.GetModTags(ctx, mod.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Female", tags[0].Name)
	assert.Equal(t, "Hair", tags[1].Name)
}

func TestReconcileDeclinedNewModIsSkipped(t *testing.T) {
	f := newReconcileFixture(t)
	writeFile(t, f.root, "Hair", "hair.package", "hair")

	summary := f.reconcile(t, Options{Fix: true}, answer{confirm: false})

	assert.Equal(t, 1, summary.Skipped)
	mods, err := f.store.ListMods(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mods)
}

func TestReconcileRemovesMissingMod(t *testing.T) {
	f := newReconcileFixture(t)
	ctx := context.Background()

	writeFile(t, f.root, "Gone", "gone.package", "gone")
	gone := recordMod(t, f.store, f.scanner, "Gone", "Retro")
	writeFile(t, f.root, "Body", "body.package", "body")
	recordMod(t, f.store, f.scanner, "Body", "Body")
	require.NoError(t, removeDir(f.root, "Gone"))

	summary := f.reconcile(t, Options{Fix: true}, answer{confirm: true})
	assert.Equal(t, 1, summary.Removed)

	_, err := f.store.GetMod(ctx, gone.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	hashes, err := f.store.GetModHashes(ctx, gone.ID)
	require.NoError(t, err)
	assert.Empty(t, hashes)

	tags, err := f.store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Body", tags[0].Name)
}

func TestReconcileKeepsMissingModWhenDeclined(t *testing.T) {
	f := newReconcileFixture(t)
	ctx := context.Background()

	writeFile(t, f.root, "Gone", "gone.package", "gone")
	gone := recordMod(t, f.store, f.scanner, "Gone", "Retro")
	require.NoError(t, removeDir(f.root, "Gone"))

	summary := f.reconcile(t, Options{Fix: true}, answer{confirm: false})
	assert.Equal(t, 1, summary.Skipped)

	_, err := f.store.GetMod(ctx, gone.ID)
	assert.NoError(t, err)
	hashes, err := f.store.GetModHashes(ctx, gone.ID)
	require.NoError(t, err)
	assert.Len(t, hashes, 1)

	// The record survives into the next pass unchanged.
	next := f.reconcile(t, Options{})
	assert.Equal(t, 1, next.MissingDirs)
}

func TestReconcileVerifyPasses(t *testing.T) {
	f := newReconcileFixture(t)
	writeFile(t, f.root, "Body", "body.package", "body")
	recordMod(t, f.store, f.scanner, "Body")

	first := f.reconcile(t, Options{Verify: true})
	second := f.reconcile(t, Options{Verify: true})

	assert.Equal(t, 1, first.Validated)
	assert.Equal(t, first, second)
}

func TestReconcileVerifyIgnoresDanglingLink(t *testing.T) {
	f := newReconcileFixture(t)
	writeFile(t, f.root, "Alpha", "alpha.package", "alpha")
	writeFile(t, f.root, "Beta", "beta.package", "beta")
	recordMod(t, f.store, f.scanner, "Alpha")
	recordMod(t, f.store, f.scanner, "Beta")

	link := filepath.Join(f.root, "Alpha", "link.package")
	if err := os.Symlink(filepath.Join(t.TempDir(), "gone.package"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	summary := f.reconcile(t, Options{Verify: true})
	assert.Equal(t, 2, summary.Validated)
	assert.Zero(t, summary.Failed)
}

func TestReconcileExistingNotVerifiedByDefault(t *testing.T) {
	f := newReconcileFixture(t)
	writeFile(t, f.root, "Body", "body.package", "body")
	recordMod(t, f.store, f.scanner, "Body")
	writeFile(t, f.root, "Body", "body.package", "patched")

	summary := f.reconcile(t, Options{Fix: true})
	assert.Zero(t, summary.Validated+summary.Failed)
}

func TestReconcileVerifyReportsFailure(t *testing.T) {
	f := newReconcileFixture(t)
	ctx := context.Background()

	writeFile(t, f.root, "Body", "body.package", "body")
	mod := recordMod(t, f.store, f.scanner, "Body")
	before, err := f.store.GetModHashes(ctx, mod.ID)
	require.NoError(t, err)

	writeFile(t, f.root, "Body", "body.package", "patched")
	writeFile(t, f.root, "Body", "extra.package", "extra")

	summary := f.reconcile(t, Options{Verify: true})
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, f.console.lines, "failure Mod 'Body' failed verification")
	assert.Contains(t, f.console.lines, "warning   changed: body.package")
	assert.Contains(t, f.console.lines, "warning   new:     extra.package")

	after, err := f.store.GetModHashes(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReconcileGuidedFix(t *testing.T) {
	f := newReconcileFixture(t)
	ctx := context.Background()

	writeFile(t, f.root, "Body", "body.package", "body")
	writeFile(t, f.root, "Body", "old.package", "old")
	mod := recordMod(t, f.store, f.scanner, "Body")

	writeFile(t, f.root, "Body", "body.package", "body v2")
	require.NoError(t, removeFile(f.root, "Body", "old.package"))
	writeFile(t, f.root, "Body", "new.package", "new")

	summary := f.reconcile(t, Options{Verify: true, Fix: true},
		answer{confirm: true},
		answer{text: "https://example.com/body-v2"},
		answer{text: "2.0"},
	)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Updated)

	updated, err := f.store.GetMod(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/body-v2", updated.SourceURL)
	assert.Equal(t, "2.0", updated.Version)

	hashes, err := f.store.GetModHashes(ctx, mod.ID)
	require.NoError(t, err)
	scanned, err := f.scanner.Scan("Body")
	require.NoError(t, err)
	assert.Equal(t, map[string]string(scanned), hashes)

	again := f.reconcile(t, Options{Verify: true})
	assert.Equal(t, 1, again.Validated)
}

func TestReconcileSyncHashesDoesNotPrompt(t *testing.T) {
	f := newReconcileFixture(t)
	ctx := context.Background()

	writeFile(t, f.root, "Body", "body.package", "body")
	mod := recordMod(t, f.store, f.scanner, "Body")
	writeFile(t, f.root, "Body", "body.package", "body v2")

	summary := f.reconcile(t, Options{SyncHashes: true})
	assert.Equal(t, 1, summary.Updated)

	updated, err := f.store.GetMod(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, mod.SourceURL, updated.SourceURL)
	assert.Equal(t, mod.Version, updated.Version)

	hashes, err := f.store.GetModHashes(ctx, mod.ID)
	require.NoError(t, err)
	scanned, err := f.scanner.Scan("Body")
	require.NoError(t, err)
	assert.Equal(t, map[string]string(scanned), hashes)
}

func TestReconcileCancellationSkipsOnlyCurrentDirectory(t *testing.T) {
	f := newReconcileFixture(t)
	ctx := context.Background()

	writeFile(t, f.root, "Alpha", "alpha.package", "alpha")
	writeFile(t, f.root, "Beta", "beta.package", "beta")

	summary := f.reconcile(t, Options{Fix: true},
		answer{confirm: true},
		answer{text: "Alpha"},
		answer{err: prompt.ErrCancelled},
		answer{confirm: true},
		answer{},
		answer{text: "https://example.com/beta"},
		answer{},
		answer{},
	)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Added)

	mods, err := f.store.ListMods(ctx)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "Beta", mods[0].Directory)
	assert.Contains(t, f.console.lines, "notice Skipped 'Alpha'")
}

func TestReconcileReportsCollisions(t *testing.T) {
	f := newReconcileFixture(t)
	ctx := context.Background()

	writeFile(t, f.root, "Alpha", "shared.package", "vendored")
	recordMod(t, f.store, f.scanner, "Alpha")
	writeFile(t, f.root, "Beta", "copy.package", "vendored")

	summary := f.reconcile(t, Options{Fix: true},
		answer{confirm: true},
		answer{},
		answer{text: "https://example.com/beta"},
		answer{},
		answer{},
	)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.Collisions)

	require.Len(t, f.console.collisions, 1)
	c := f.console.collisions[0]
	assert.Equal(t, "Beta", c.Mod)
	assert.Equal(t, "copy.package", c.File)
	assert.Equal(t, "Alpha", c.ExistingMod)
	assert.Equal(t, "shared.package", c.ExistingFile)

	beta, err := f.store.GetModByName(ctx, "Beta")
	require.NoError(t, err)
	hashes, err := f.store.GetModHashes(ctx, beta.ID)
	require.NoError(t, err)
	assert.Len(t, hashes, 1)
}

func TestReconcileRejectsDuplicateName(t *testing.T) {
	f := newReconcileFixture(t)

	writeFile(t, f.root, "Alpha", "alpha.package", "alpha")
	recordMod(t, f.store, f.scanner, "Alpha")
	writeFile(t, f.root, "Beta", "beta.package", "beta")

	f.prompter = newPrompter(t, answer{confirm: true}, answer{text: "Alpha"})
	r := NewReconciler(f.store, f.scanner, f.prompter, f.console, nopLogger())

	_, err := r.Reconcile(context.Background(), Options{Fix: true})
	assert.ErrorContains(t, err, "a mod named 'Alpha' already exists")
}
