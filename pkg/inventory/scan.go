package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the package file extensions used by the game.
var DefaultExtensions = []string{".package", ".ts4script"}

// Inventory maps file names inside a mod directory to their fingerprints.
type Inventory map[string]string

// Files returns the file names of the inventory in sorted order.
func (inv Inventory) Files() []string {
	return Sorted(KeySet(inv))
}

// Scanner reads mod directories below a root directory.
type Scanner struct {
	root       string
	extensions Set[string]
	ignore     []string
}

// NewScanner creates a scanner over root. Empty extensions default to the
// package and script extensions; ignore holds doublestar patterns.
func NewScanner(root string, extensions []string, ignore []string) (*Scanner, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	exts := make(Set[string], len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts.Add(ext)
	}

	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern '%s'", pattern)
		}
	}

	return &Scanner{
		root:       root,
		extensions: exts,
		ignore:     ignore,
	}, nil
}

// Root returns the mod directory the scanner works in.
func (s *Scanner) Root() string {
	return s.root
}

// Scan fingerprints every package file directly inside dir, which is
// relative to the root. Subdirectories, hidden files and files with other
// extensions are skipped.
func (s *Scanner) Scan(dir string) (Inventory, error) {
	full := filepath.Join(s.root, dir)

	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("failed to list mod directory '%s': %w", dir, err)
	}

	inv := make(Inventory)
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !s.extensions.Has(strings.ToLower(filepath.Ext(name))) {
			continue
		}

		regular, err := isRegularFile(full, entry)
		if err != nil {
			return nil, err
		}
		if !regular {
			continue
		}

		fp, err := FingerprintFile(filepath.Join(full, name))
		if err != nil {
			return nil, err
		}
		inv[name] = fp
	}

	return inv, nil
}

// ModDirectories lists the subdirectories of the root that are mod
// directories, skipping hidden ones and those matching an ignore pattern.
func (s *Scanner) ModDirectories() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list mod root '%s': %w", s.root, err)
	}

	var dirs []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || s.ignored(name) {
			continue
		}
		dirs = append(dirs, name)
	}

	sort.Strings(dirs)
	return dirs, nil
}

func (s *Scanner) ignored(name string) bool {
	for _, pattern := range s.ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func isRegularFile(dir string, entry fs.DirEntry) (bool, error) {
	if entry.Type().IsRegular() {
		return true, nil
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}

	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if errors.Is(err, fs.ErrNotExist) {
		// Dangling link.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to resolve '%s': %w", entry.Name(), err)
	}
	return info.Mode().IsRegular(), nil
}
