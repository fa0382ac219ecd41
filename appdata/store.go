// ABOUTME: Application data store: loads members (with README-derived icons) and the curriculum once,
// ABOUTME: then publishes both as one immutable snapshot. Failures leave the empty default in place.
package appdata

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/2389-research/cohort/batch"
	"github.com/2389-research/cohort/curriculum"
	"github.com/2389-research/cohort/logging"
	"github.com/2389-research/cohort/pictograph"
)

var tracer = otel.Tracer("github.com/2389-research/cohort/appdata")

// Member is a cohort member and the icon taken from their README.
type Member struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Data is the published snapshot.
type Data struct {
	Curriculum []curriculum.Chapter `json:"curriculum"`
	Members    []Member             `json:"members"`
}

// DefaultData is the snapshot before, or instead of, a successful load.
func DefaultData() Data {
	return Data{Curriculum: []curriculum.Chapter{}, Members: []Member{}}
}

// Fetcher is the source the store loads from.
type Fetcher interface {
	Members(ctx context.Context) ([]string, error)
	Readme(ctx context.Context, name string) (string, error)
	Curriculum(ctx context.Context) ([]curriculum.Chapter, error)
}

// Store holds the member and curriculum snapshot. The snapshot is replaced
// wholesale, so readers never see a partially loaded value.
type Store struct {
	fetcher Fetcher
	log     *logging.Logger

	data  atomic.Pointer[Data]
	ready atomic.Bool
	done  chan struct{}

	once    sync.Once
	loadErr error
}

// NewStore returns a store publishing DefaultData until Load succeeds.
func NewStore(fetcher Fetcher, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	s := &Store{fetcher: fetcher, log: log, done: make(chan struct{})}
	d := DefaultData()
	s.data.Store(&d)
	return s
}

// Load fetches everything once. Later calls return the first call's result
// without fetching again. On failure the error is logged and returned and the
// snapshot stays at DefaultData. Ready is true once Load returns.
func (s *Store) Load(ctx context.Context) error {
	s.once.Do(func() {
		defer func() {
			s.ready.Store(true)
			close(s.done)
		}()
		s.loadErr = s.load(ctx)
	})
	return s.loadErr
}

// Snapshot returns the current published data.
func (s *Store) Snapshot() Data {
	return *s.data.Load()
}

// Ready reports whether loading has settled, successfully or not.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// Done is closed when loading settles.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

func (s *Store) load(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "appdata.Load")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var (
		members  []Member
		chapters []curriculum.Chapter
	)

	// The curriculum does not depend on the members, so both run together.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.loadMembers(gctx)
		if err != nil {
			return err
		}
		members = m
		return nil
	})
	g.Go(func() error {
		c, err := s.fetcher.Curriculum(gctx)
		if err != nil {
			return fmt.Errorf("fetch curriculum: %w", err)
		}
		chapters = c
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error("failed to fetch data", "error", err)
		return err
	}

	if chapters == nil {
		chapters = []curriculum.Chapter{}
	}
	s.data.Store(&Data{Curriculum: chapters, Members: members})

	span.SetAttributes(attribute.Int("members", len(members)), attribute.Int("chapters", len(chapters)))
	s.log.Info("data loaded", "members", len(members), "chapters", len(chapters))
	return nil
}

func (s *Store) loadMembers(ctx context.Context) ([]Member, error) {
	names, err := s.fetcher.Members(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch members: %w", err)
	}

	results := batch.Settle(ctx, len(names), func(ctx context.Context, i int) (Member, error) {
		text, err := s.fetcher.Readme(ctx, names[i])
		if err != nil {
			return Member{}, err
		}
		return Member{Name: names[i], Icon: pictograph.FirstIcon(text)}, nil
	})

	return batch.Resolve(results, func(i int, err error) Member {
		s.log.Warn("failed to fetch README", "member", names[i], "error", err)
		return Member{Name: names[i]}
	}), nil
}
