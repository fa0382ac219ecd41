// ABOUTME: Content Resolver: maps (member, chapter) to the chapter's parts paired with their MDX text.
// ABOUTME: Part reads fan out in parallel; a failed read becomes the fallback text and a warning.
package curriculum

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/2389-research/cohort/batch"
	"github.com/2389-research/cohort/logging"
)

// FallbackContent replaces the text of a part whose file could not be read.
const FallbackContent = "🚨 Failed to load content."

var tracer = otel.Tracer("github.com/2389-research/cohort/curriculum")

// ContentItem is one resolved part, ready for rendering.
type ContentItem struct {
	Title   string
	Icon    string
	Content string

	// Err is the read error behind a fallback item, nil otherwise.
	Err error
}

// Resolver resolves chapter content for members.
type Resolver struct {
	lib *Library
	log *logging.Logger
}

// NewResolver returns a Resolver reading from lib.
func NewResolver(lib *Library, log *logging.Logger) *Resolver {
	if log == nil {
		log = logging.NewNop()
	}
	return &Resolver{lib: lib, log: log}
}

// Resolve returns one item per part of chapter idx (1-based, as in the route),
// in manifest order. Manifest and argument errors are returned; per-part read
// failures are not, they yield FallbackContent instead.
func (r *Resolver) Resolve(ctx context.Context, name, idx string) (items []ContentItem, err error) {
	ctx, span := tracer.Start(ctx, "curriculum.Resolve", trace.WithAttributes(
		attribute.String("member", name),
		attribute.String("chapter", idx),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ValidateMemberName(name); err != nil {
		return nil, err
	}
	n, err := ParseChapterIndex(idx)
	if err != nil {
		return nil, err
	}

	manifest, err := r.lib.Manifest()
	if err != nil {
		return nil, err
	}
	chapter, err := manifest.Chapter(n)
	if err != nil {
		return nil, err
	}

	results := batch.Settle(ctx, len(chapter), func(ctx context.Context, i int) (ContentItem, error) {
		part := chapter[i]
		content, err := r.lib.PartContent(ctx, name, idx, i, part)
		if err != nil {
			return ContentItem{}, err
		}
		return ContentItem{Title: part.Title, Icon: part.Icon, Content: content}, nil
	})

	failed := 0
	items = batch.Resolve(results, func(i int, err error) ContentItem {
		failed++
		part := chapter[i]
		r.log.Warn("failed to load chapter content",
			"member", name,
			"chapter", n,
			"part", i+1,
			"title", part.Title,
			"error", err,
		)
		return ContentItem{Title: part.Title, Icon: part.Icon, Content: FallbackContent, Err: err}
	})

	span.SetAttributes(attribute.Int("parts", len(items)), attribute.Int("parts.failed", failed))
	return items, nil
}
