// ABOUTME: Content tree path derivation for member chapters and parts.
package curriculum

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ReadmeFile is the file name of every content and member README.
const ReadmeFile = "README.mdx"

var ErrInvalidMemberName = errors.New("invalid member name")

// ChapterDir names the folder of chapter idx, the route segment exactly as
// given. The prefix is a literal "chap0", so "12" lives in "chap012" and
// "01" in "chap001".
func ChapterDir(idx string) string {
	return "chap0" + idx
}

// PartDir names the folder of the part at 0-based position i.
func PartDir(i int, title string) string {
	return fmt.Sprintf("%d_%s", i+1, strings.ToLower(title))
}

// ContentPath is the MDX file backing one part of a member's chapter.
func ContentPath(contentDir, name, idx string, i int, part Part) string {
	return filepath.Join(contentDir, "member", name, ChapterDir(idx), PartDir(i, part.Title), ReadmeFile)
}

// MemberReadmePath is the member's personal README.
func MemberReadmePath(contentDir, name string) string {
	return filepath.Join(contentDir, "member", name, ReadmeFile)
}

// ValidateMemberName rejects names that are not a single path segment.
func ValidateMemberName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidMemberName, name)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrInvalidMemberName, name)
	}
	return nil
}
