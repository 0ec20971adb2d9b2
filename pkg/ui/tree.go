package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/mwantia/modkeep/pkg/db/models"
	"github.com/mwantia/modkeep/pkg/inventory"
)

// ModEntry is one mod in a listing. Hashes and Report are only rendered
// when set.
type ModEntry struct {
	Mod    models.Mod
	Tags   []string
	Hashes map[string]string
	Report *inventory.Report
}

// Mods prints every mod as a tree node with its metadata as children.
func (c *Console) Mods(entries []ModEntry) {
	if len(entries) == 0 {
		c.Notice("No mods recorded")
		return
	}

	root := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(c.styles.enum)

	for _, entry := range entries {
		root.Child(c.modNode(entry))
	}
	fmt.Fprintln(c.out, root.String())
}

func (c *Console) modNode(entry ModEntry) *tree.Tree {
	mod := entry.Mod
	label := fmt.Sprintf("%s %s", c.styles.title.Render(mod.Name), c.styles.muted.Render("#"+fmt.Sprint(mod.ID)))

	node := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(c.styles.enum).
		Child(
			"directory: "+mod.Directory,
			"version:   "+mod.Version,
			"source:    "+c.styles.highlight.Render(mod.SourceURL),
			"updated:   "+mod.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)

	if len(entry.Tags) > 0 {
		node.Child("tags:      " + strings.Join(entry.Tags, ", "))
	}

	if entry.Report != nil {
		node.Child(c.reportNode(*entry.Report))
	}

	if entry.Hashes != nil {
		files := tree.Root(fmt.Sprintf("files (%d)", len(entry.Hashes))).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(c.styles.enum)
		for _, file := range inventory.Sorted(inventory.KeySet(entry.Hashes)) {
			files.Child(fmt.Sprintf("%s %s", entry.Hashes[file], file))
		}
		node.Child(files)
	}

	return node
}

func (c *Console) reportNode(report inventory.Report) any {
	if report.Passed() {
		return c.styles.success.Render("✓ verified")
	}

	node := tree.Root(c.styles.failure.Render("✗ verification failed")).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(c.styles.enum)
	for _, file := range report.Missing {
		node.Child("missing: " + file)
	}
	for _, file := range report.ChangedFiles() {
		node.Child("changed: " + file)
	}
	for _, file := range report.NewFiles() {
		node.Child("new:     " + file)
	}
	return node
}

// Tags prints every tag with the mods linked to it.
func (c *Console) Tags(tags []models.TagWithMods) {
	if len(tags) == 0 {
		c.Notice("No tags recorded")
		return
	}

	root := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(c.styles.enum)

	for _, tag := range tags {
		node := tree.Root(fmt.Sprintf("%s %s", c.styles.title.Render(tag.Tag.Name), c.styles.muted.Render(fmt.Sprintf("(%d)", len(tag.Mods))))).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(c.styles.enum)
		for _, mod := range tag.Mods {
			node.Child(mod.Name)
		}
		root.Child(node)
	}
	fmt.Fprintln(c.out, root.String())
}

// TagNames prints tag names only.
func (c *Console) TagNames(tags []models.Tag) {
	if len(tags) == 0 {
		c.Notice("No tags recorded")
		return
	}
	for _, tag := range tags {
		fmt.Fprintf(c.out, "%s %s\n", c.styles.muted.Render("•"), tag.Name)
	}
}
