package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwantia/modkeep/pkg/db/models"
	"github.com/mwantia/modkeep/pkg/db/store"
	"github.com/mwantia/modkeep/pkg/log"
	"github.com/mwantia/modkeep/pkg/prompt"
)

// ErrConflictingModes is returned when guided fixing and hash resync are
// requested together.
var ErrConflictingModes = errors.New("fix and sync-hashes cannot be combined")

// VersionLayout formats the default version label of a new mod (ddmmyy).
const VersionLayout = "020106"

// Options select what a reconciliation pass is allowed to do.
type Options struct {
	// Verify re-scans recorded mods and compares their fingerprints.
	Verify bool
	// Fix enables interactive corrective actions.
	Fix bool
	// SyncHashes accepts the on-disk content of failing mods without asking.
	SyncHashes bool
}

func (o Options) Validate() error {
	if o.Fix && o.SyncHashes {
		return ErrConflictingModes
	}
	return nil
}

// Classification sorts directories by where they are known.
type Classification struct {
	New      []string // on disk only
	Missing  []string // recorded only
	Existing []string // on disk and recorded
}

// Classify partitions the union of on-disk and recorded directories.
func Classify(onDisk, recorded []string) Classification {
	diff := DiffSets(NewSet(recorded...), NewSet(onDisk...))
	return Classification{
		New:      Sorted(diff.Added),
		Missing:  Sorted(diff.Removed),
		Existing: Sorted(diff.Common),
	}
}

// Summary counts the outcome of a reconciliation pass.
type Summary struct {
	NewDirs      int
	MissingDirs  int
	ExistingDirs int

	Added      int
	Removed    int
	Updated    int
	Validated  int
	Failed     int
	Skipped    int
	Collisions int
}

// Reconciler aligns the recorded inventory with the mod directories on disk.
type Reconciler struct {
	store      store.InventoryStore
	scanner    *Scanner
	verifier   *Verifier
	prompter   prompt.Prompter
	console    Console
	collisions *CollisionDetector
	log        log.LoggerService

	now func() time.Time
}

func NewReconciler(s store.InventoryStore, scanner *Scanner, prompter prompt.Prompter, console Console, logger log.LoggerService) *Reconciler {
	return &Reconciler{
		store:      s,
		scanner:    scanner,
		verifier:   NewVerifier(scanner),
		prompter:   prompter,
		console:    console,
		collisions: NewCollisionDetector(logger.Named("collision"), console),
		log:        logger,
		now:        time.Now,
	}
}

// Reconcile runs one pass over every known and discovered directory.
// A cancelled prompt skips the pending action of its directory only;
// filesystem and store errors stop the pass.
func (r *Reconciler) Reconcile(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary
	if err := opts.Validate(); err != nil {
		return summary, err
	}

	onDisk, err := r.scanner.ModDirectories()
	if err != nil {
		return summary, err
	}
	mods, err := r.store.ListMods(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list mods: %w", err)
	}

	byDir := make(map[string]models.Mod, len(mods))
	recorded := make([]string, 0, len(mods))
	for _, mod := range mods {
		byDir[mod.Directory] = mod
		recorded = append(recorded, mod.Directory)
	}

	cls := Classify(onDisk, recorded)
	summary.NewDirs = len(cls.New)
	summary.MissingDirs = len(cls.Missing)
	summary.ExistingDirs = len(cls.Existing)

	r.log.Info("Reconciling '%s': %d new, %d missing, %d existing",
		r.scanner.Root(), len(cls.New), len(cls.Missing), len(cls.Existing))

	for _, dir := range cls.New {
		if err := r.settle(dir, r.addNew(ctx, dir, opts, &summary), &summary); err != nil {
			return summary, err
		}
	}
	for _, dir := range cls.Missing {
		mod := byDir[dir]
		if err := r.settle(dir, r.removeMissing(ctx, mod, opts, &summary), &summary); err != nil {
			return summary, err
		}
	}
	for _, dir := range cls.Existing {
		mod := byDir[dir]
		if err := r.settle(dir, r.verifyExisting(ctx, mod, opts, &summary), &summary); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// settle turns a cancelled prompt into a skipped directory.
func (r *Reconciler) settle(dir string, err error, summary *Summary) error {
	if err == nil {
		return nil
	}
	if prompt.IsCancelled(err) {
		summary.Skipped++
		r.console.Notice("Skipped '%s'", dir)
		r.log.Debug("Prompt for '%s' cancelled", dir)
		return nil
	}
	return fmt.Errorf("failed to reconcile '%s': %w", dir, err)
}

func (r *Reconciler) addNew(ctx context.Context, dir string, opts Options, summary *Summary) error {
	if !opts.Fix {
		r.console.Warning("New mod directory '%s' is not recorded", dir)
		return nil
	}

	ok, err := r.prompter.Confirm(ctx, fmt.Sprintf("Add new mod directory '%s'?", dir), true)
	if err != nil {
		return err
	}
	if !ok {
		summary.Skipped++
		r.console.Notice("Skipped '%s'", dir)
		return nil
	}

	mod, tags, err := r.askNewMod(ctx, dir)
	if err != nil {
		return err
	}

	files, err := r.scanner.Scan(dir)
	if err != nil {
		return err
	}

	var collisions int
	err = r.store.Transaction(ctx, func(tx store.InventoryStore) error {
		if err := tx.CreateMod(ctx, mod); err != nil {
			return fmt.Errorf("failed to create mod '%s': %w", mod.Name, err)
		}
		for _, name := range tags {
			tag, err := tx.GetOrCreateTag(ctx, name)
			if err != nil {
				return err
			}
			if err := tx.LinkModTag(ctx, mod.ID, tag.ID); err != nil {
				return err
			}
		}
		var err error
		collisions, err = r.insertHashes(ctx, tx, mod, files)
		return err
	})
	if err != nil {
		return err
	}

	summary.Added++
	summary.Collisions += collisions
	r.console.Success("Added mod '%s' with %d file(s)", mod.Name, len(files))
	r.log.Info("Added mod '%s' (%s) with %d file(s)", mod.Name, dir, len(files))
	return nil
}

func (r *Reconciler) askNewMod(ctx context.Context, dir string) (*models.Mod, []string, error) {
	name, err := r.prompter.Text(ctx, prompt.TextOptions{
		Title:    "Name",
		Default:  dir,
		Validate: prompt.All(prompt.Required("Name"), r.uniqueName(ctx)),
	})
	if err != nil {
		return nil, nil, err
	}

	source, err := r.prompter.Text(ctx, prompt.TextOptions{
		Title:       "Source URL",
		Placeholder: "https://",
		Validate:    prompt.All(prompt.Required("Source URL"), prompt.ValidURL),
	})
	if err != nil {
		return nil, nil, err
	}

	version, err := r.prompter.Text(ctx, prompt.TextOptions{
		Title:    "Version",
		Default:  r.now().Format(VersionLayout),
		Validate: prompt.Required("Version"),
	})
	if err != nil {
		return nil, nil, err
	}

	known, err := r.store.ListTags(ctx)
	if err != nil {
		return nil, nil, err
	}
	completer := prompt.NewTagCompleter(nil)
	for _, tag := range known {
		completer.Insert(tag.Name)
	}

	tags, err := r.prompter.Text(ctx, prompt.TextOptions{
		Title:       "Tags",
		Placeholder: "comma separated",
		Suggest:     completer.Suggest,
	})
	if err != nil {
		return nil, nil, err
	}

	mod := &models.Mod{
		Name:      name,
		Directory: dir,
		SourceURL: source,
		Version:   version,
	}
	return mod, ParseTags(tags), nil
}

func (r *Reconciler) uniqueName(ctx context.Context) func(string) error {
	return func(name string) error {
		_, err := r.store.GetModByName(ctx, name)
		if err == nil {
			return fmt.Errorf("a mod named '%s' already exists", name)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
}

func (r *Reconciler) removeMissing(ctx context.Context, mod models.Mod, opts Options, summary *Summary) error {
	if !opts.Fix {
		r.console.Warning("Mod '%s' is missing its directory '%s'", mod.Name, mod.Directory)
		return nil
	}

	title := fmt.Sprintf("Directory '%s' of mod '%s' no longer exists. Remove the mod?", mod.Directory, mod.Name)
	ok, err := r.prompter.Confirm(ctx, title, false)
	if err != nil {
		return err
	}
	if !ok {
		summary.Skipped++
		r.console.Notice("Kept mod '%s'", mod.Name)
		return nil
	}

	err = r.store.Transaction(ctx, func(tx store.InventoryStore) error {
		if err := tx.DeleteMod(ctx, mod.ID); err != nil {
			return fmt.Errorf("failed to delete mod '%s': %w", mod.Name, err)
		}
		removed, err := tx.CleanupTags(ctx)
		if err != nil {
			return fmt.Errorf("failed to clean up tags: %w", err)
		}
		if removed > 0 {
			r.log.Debug("Removed %d unused tag(s)", removed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	summary.Removed++
	r.console.Success("Removed mod '%s'", mod.Name)
	r.log.Info("Removed mod '%s' (%s)", mod.Name, mod.Directory)
	return nil
}

func (r *Reconciler) verifyExisting(ctx context.Context, mod models.Mod, opts Options, summary *Summary) error {
	if !opts.Verify && !opts.SyncHashes {
		return nil
	}

	recorded, err := r.store.GetModHashes(ctx, mod.ID)
	if err != nil {
		return err
	}
	report, _, err := r.verifier.Verify(mod.Directory, recorded)
	if err != nil {
		return err
	}

	if report.Passed() {
		summary.Validated++
		r.console.Success("Mod '%s' passed verification (%d file(s))", mod.Name, len(report.Matching))
		return nil
	}

	summary.Failed++
	r.reportFailure(mod, report)

	switch {
	case opts.SyncHashes:
		return r.resyncHashes(ctx, mod, report.Apply(recorded), summary)
	case opts.Fix:
		return r.guidedFix(ctx, mod, report.Apply(recorded), summary)
	}
	return nil
}

func (r *Reconciler) reportFailure(mod models.Mod, report Report) {
	r.console.Failure("Mod '%s' failed verification", mod.Name)
	for _, file := range report.Missing {
		r.console.Warning("  missing: %s", file)
	}
	for _, file := range report.ChangedFiles() {
		r.console.Warning("  changed: %s", file)
	}
	for _, file := range report.NewFiles() {
		r.console.Warning("  new:     %s", file)
	}
}

// resyncHashes records the on-disk state as ground truth without asking.
// It cannot tell a legitimate update from tampering.
func (r *Reconciler) resyncHashes(ctx context.Context, mod models.Mod, hashes map[string]string, summary *Summary) error {
	r.log.Warn("Accepting on-disk content of '%s' as ground truth without confirmation", mod.Name)

	var collisions int
	err := r.store.Transaction(ctx, func(tx store.InventoryStore) error {
		if err := tx.UpdateMod(ctx, &mod); err != nil {
			return err
		}
		var err error
		collisions, err = r.replaceHashes(ctx, tx, &mod, hashes)
		return err
	})
	if err != nil {
		return err
	}

	summary.Updated++
	summary.Collisions += collisions
	r.console.Warning("Resynced %d hash(es) of '%s' from disk", len(hashes), mod.Name)
	return nil
}

func (r *Reconciler) guidedFix(ctx context.Context, mod models.Mod, hashes map[string]string, summary *Summary) error {
	ok, err := r.prompter.Confirm(ctx, fmt.Sprintf("Update the record of '%s'?", mod.Name), true)
	if err != nil {
		return err
	}
	if !ok {
		summary.Skipped++
		r.console.Notice("Left '%s' unchanged", mod.Name)
		return nil
	}

	source, err := r.prompter.Text(ctx, prompt.TextOptions{
		Title:    "Source URL",
		Default:  mod.SourceURL,
		Validate: prompt.All(prompt.Required("Source URL"), prompt.ValidURL),
	})
	if err != nil {
		return err
	}
	version, err := r.prompter.Text(ctx, prompt.TextOptions{
		Title:    "Version",
		Default:  mod.Version,
		Validate: prompt.Required("Version"),
	})
	if err != nil {
		return err
	}

	mod.SourceURL = source
	mod.Version = version

	var collisions int
	err = r.store.Transaction(ctx, func(tx store.InventoryStore) error {
		if err := tx.UpdateMod(ctx, &mod); err != nil {
			return fmt.Errorf("failed to update mod '%s': %w", mod.Name, err)
		}
		var err error
		collisions, err = r.replaceHashes(ctx, tx, &mod, hashes)
		return err
	})
	if err != nil {
		return err
	}

	summary.Updated++
	summary.Collisions += collisions
	r.console.Success("Updated mod '%s' (%d file(s))", mod.Name, len(hashes))
	r.log.Info("Updated mod '%s' to version '%s'", mod.Name, mod.Version)
	return nil
}

// replaceHashes swaps the whole fingerprint set of a mod.
func (r *Reconciler) replaceHashes(ctx context.Context, tx store.InventoryStore, mod *models.Mod, hashes map[string]string) (int, error) {
	if err := tx.DeleteModHashes(ctx, mod.ID); err != nil {
		return 0, fmt.Errorf("failed to delete hashes of '%s': %w", mod.Name, err)
	}
	return r.insertHashes(ctx, tx, mod, hashes)
}

func (r *Reconciler) insertHashes(ctx context.Context, tx store.InventoryStore, mod *models.Mod, hashes map[string]string) (int, error) {
	count := 0
	for _, file := range Sorted(KeySet(hashes)) {
		hash := hashes[file]

		found, err := r.collisions.Check(ctx, tx, mod.ID, mod.Name, file, hash)
		if err != nil {
			return count, err
		}
		count += len(found)

		if err := tx.CreateModHash(ctx, &models.ModHash{ModID: mod.ID, File: file, Hash: hash}); err != nil {
			return count, fmt.Errorf("failed to record hash of '%s': %w", file, err)
		}
	}
	return count, nil
}
