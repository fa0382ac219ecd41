// ABOUTME: Library gives read-only access to the content tree: manifest, member list, and MDX files.
// ABOUTME: Layout is {content}/member/{name}/README.mdx plus per-chapter part folders.
package curriculum

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrMemberNotFound = errors.New("member not found")

// Library reads curriculum data from the filesystem. It never writes.
type Library struct {
	manifestPath string
	contentDir   string
}

// NewLibrary returns a Library for the given manifest file and content root.
func NewLibrary(manifestPath, contentDir string) *Library {
	return &Library{manifestPath: manifestPath, contentDir: contentDir}
}

func (l *Library) ContentDir() string { return l.contentDir }

// Manifest reads and parses the manifest file. It is re-read on every call.
func (l *Library) Manifest() (*Manifest, error) {
	data, err := os.ReadFile(l.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", l.manifestPath, err)
	}
	return m, nil
}

// Members lists member directory names in lexical order. A missing member
// directory yields an empty list.
func (l *Library) Members() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.contentDir, "member"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list members: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Readme returns the member's README text.
func (l *Library) Readme(name string) (string, error) {
	if err := ValidateMemberName(name); err != nil {
		return "", err
	}
	data, err := os.ReadFile(MemberReadmePath(l.contentDir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrMemberNotFound, name)
		}
		return "", fmt.Errorf("read README for %s: %w", name, err)
	}
	return string(data), nil
}

// PartContent reads the MDX source for one part of a member's chapter. idx is
// the chapter's route segment; see ChapterDir.
func (l *Library) PartContent(ctx context.Context, name, idx string, i int, part Part) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(ContentPath(l.contentDir, name, idx, i, part))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
