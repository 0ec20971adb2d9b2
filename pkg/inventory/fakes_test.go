package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/modkeep/pkg/db/models"
	"github.com/mwantia/modkeep/pkg/db/store"
	"github.com/mwantia/modkeep/pkg/log"
	"github.com/mwantia/modkeep/pkg/prompt"
	"github.com/stretchr/testify/require"
)

// answer is one scripted reply. An empty text keeps the prompt default.
type answer struct {
	text    string
	confirm bool
	index   int
	indexes []int
	err     error
}

type scriptedPrompter struct {
	t       *testing.T
	answers []answer
	titles  []string
}

func newPrompter(t *testing.T, answers ...answer) *scriptedPrompter {
	return &scriptedPrompter{t: t, answers: answers}
}

func (p *scriptedPrompter) next(title string) answer {
	p.t.Helper()
	require.NotEmpty(p.t, p.answers, "unexpected prompt %q", title)

	p.titles = append(p.titles, title)
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a
}

func (p *scriptedPrompter) Text(_ context.Context, opts prompt.TextOptions) (string, error) {
	a := p.next(opts.Title)
	if a.err != nil {
		return "", a.err
	}

	value := a.text
	if value == "" {
		value = opts.Default
	}
	if opts.Validate != nil {
		if err := opts.Validate(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func (p *scriptedPrompter) Confirm(_ context.Context, title string, _ bool) (bool, error) {
	a := p.next(title)
	return a.confirm, a.err
}

func (p *scriptedPrompter) Select(_ context.Context, title string, _ []string) (int, error) {
	a := p.next(title)
	return a.index, a.err
}

func (p *scriptedPrompter) MultiSelect(_ context.Context, opts prompt.MultiSelectOptions) ([]int, error) {
	a := p.next(opts.Title)
	return a.indexes, a.err
}

type recordingConsole struct {
	lines      []string
	collisions []Collision
}

func (c *recordingConsole) add(kind, format string, args ...any) {
	c.lines = append(c.lines, kind+" "+fmt.Sprintf(format, args...))
}

func (c *recordingConsole) Notice(format string, args ...any)  { c.add("notice", format, args...) }
func (c *recordingConsole) Success(format string, args ...any) { c.add("success", format, args...) }
func (c *recordingConsole) Warning(format string, args ...any) { c.add("warning", format, args...) }
func (c *recordingConsole) Failure(format string, args ...any) { c.add("failure", format, args...) }
func (c *recordingConsole) Collision(col Collision)            { c.collisions = append(c.collisions, col) }

func newTestStore(t *testing.T) store.InventoryStore {
	t.Helper()

	s, err := store.NewSQLiteStore(store.SQLiteConfig{Path: filepath.Join(t.TempDir(), "mods.sqlite")})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))
	_, err = s.Migrate(ctx)
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })
	return s
}

// writeFile creates root/dir/name with content.
func writeFile(t *testing.T, root, dir, name, content string) {
	t.Helper()

	full := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(full, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(full, name), []byte(content), 0644))
}

// recordMod stores dir as a mod with the fingerprints currently on disk.
func recordMod(t *testing.T, s store.InventoryStore, scanner *Scanner, dir string, tags ...string) *models.Mod {
	t.Helper()
	ctx := context.Background()

	files, err := scanner.Scan(dir)
	require.NoError(t, err)

	mod := &models.Mod{
		Name:      dir,
		Directory: dir,
		SourceURL: "https://example.com/" + dir,
		Version:   "1.0",
	}
	require.NoError(t, s.CreateMod(ctx, mod))
	for file, hash := range files {
		require.NoError(t, s.CreateModHash(ctx, &models.ModHash{ModID: mod.ID, File: file, Hash: hash}))
	}
	for _, name := range tags {
		tag, err := s.GetOrCreateTag(ctx, name)
		require.NoError(t, err)
		require.NoError(t, s.LinkModTag(ctx, mod.ID, tag.ID))
	}
	return mod
}

func nopLogger() log.LoggerService {
	return log.NewNopLogger()
}

func removeDir(root, dir string) error {
	return os.RemoveAll(filepath.Join(root, dir))
}

func removeFile(root, dir, name string) error {
	return os.Remove(filepath.Join(root, dir, name))
}
