// ABOUTME: Curriculum manifest model: ordered chapters of ordered parts parsed from {"data": [[...]]}.
// ABOUTME: Parts keep their raw JSON so fields beyond title and icon pass through untouched.
package curriculum

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrMalformedManifest   = errors.New("malformed curriculum manifest")
	ErrInvalidChapterIndex = errors.New("chapter index must be a positive integer")
	ErrChapterNotFound     = errors.New("chapter not found")
)

// Part is one unit within a chapter.
type Part struct {
	Title string
	Icon  string

	// Raw is the part's JSON object as it appeared in the manifest.
	Raw json.RawMessage
}

// Chapter is the ordered list of parts. Part order is also the on-disk ordinal.
type Chapter []Part

// Manifest is the parsed curriculum.
type Manifest struct {
	Chapters []Chapter
}

// ParseManifest parses a manifest document of the shape {"data": [[part, ...], ...]}.
func ParseManifest(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedManifest)
	}
	list := gjson.GetBytes(data, "data")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: missing \"data\" array", ErrMalformedManifest)
	}
	chapters, err := parseChapters(list)
	if err != nil {
		return nil, err
	}
	return &Manifest{Chapters: chapters}, nil
}

// ParseChapters parses a bare chapter list ([[part, ...], ...]), the shape the
// curriculum API returns under "curriculum".
func ParseChapters(data []byte) ([]Chapter, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedManifest)
	}
	list := gjson.ParseBytes(data)
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: expected a chapter array", ErrMalformedManifest)
	}
	return parseChapters(list)
}

func parseChapters(list gjson.Result) ([]Chapter, error) {
	chapters := make([]Chapter, 0, len(list.Array()))
	for ci, ch := range list.Array() {
		if !ch.IsArray() {
			return nil, fmt.Errorf("%w: chapter %d is not an array", ErrMalformedManifest, ci+1)
		}
		parts := make(Chapter, 0, len(ch.Array()))
		for pi, p := range ch.Array() {
			part, err := partFromResult(p)
			if err != nil {
				return nil, fmt.Errorf("chapter %d part %d: %w", ci+1, pi+1, err)
			}
			parts = append(parts, part)
		}
		chapters = append(chapters, parts)
	}
	return chapters, nil
}

func partFromResult(p gjson.Result) (Part, error) {
	if !p.IsObject() {
		return Part{}, fmt.Errorf("%w: part is not an object", ErrMalformedManifest)
	}
	return Part{
		Title: stringField(p, "title"),
		Icon:  stringField(p, "icon"),
		Raw:   json.RawMessage(p.Raw),
	}, nil
}

func stringField(p gjson.Result, key string) string {
	v := p.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}

// MarshalJSON emits the part's original JSON when available.
func (p Part) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(struct {
		Title string `json:"title"`
		Icon  string `json:"icon,omitempty"`
	}{p.Title, p.Icon})
}

// UnmarshalJSON reads a part object and keeps its raw bytes.
func (p *Part) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: invalid part JSON", ErrMalformedManifest)
	}
	part, err := partFromResult(gjson.ParseBytes(data))
	if err != nil {
		return err
	}
	part.Raw = append(json.RawMessage(nil), data...)
	*p = part
	return nil
}

// Chapter returns the chapter at the 1-based index idx.
func (m *Manifest) Chapter(idx int) (Chapter, error) {
	if idx < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChapterIndex, idx)
	}
	if idx > len(m.Chapters) {
		return nil, fmt.Errorf("%w: chapter %d of %d", ErrChapterNotFound, idx, len(m.Chapters))
	}
	return m.Chapters[idx-1], nil
}

// ParseChapterIndex converts a route parameter into a 1-based chapter index.
// Only ASCII digits are accepted, since the segment also names the chapter
// folder. Leading zeros are allowed.
func ParseChapterIndex(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChapterIndex, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChapterIndex, s)
	}
	return n, nil
}
