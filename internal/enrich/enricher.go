package enrich

import (
	"context"
	"maps"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reviewscout/enrich-cli/internal/model"
	"github.com/reviewscout/enrich-cli/internal/source"
)

// Options controls batch execution.
type Options struct {
	// MaxConcurrent is the group size: records in one group are
	// processed concurrently, groups run strictly one after another.
	// Default 3.
	MaxConcurrent int
	// GroupDelay is the pause between groups, spacing outbound calls to
	// respect third-party rate limits. Default 2s.
	GroupDelay time.Duration
}

// Result is the outcome of a batch enrichment run.
type Result struct {
	Businesses []model.BusinessRecord `json:"businesses"`
	Stats      model.EnrichmentStats  `json:"stats"`
}

// Enricher drives the source fallback chain over a batch of records.
type Enricher struct {
	connectors []source.Connector
	now        func() time.Time
	wait       func(ctx context.Context, d time.Duration)
}

// New creates an Enricher over the given connectors. Chain order is the
// merge tie-break: the first connector to fill a field wins.
func New(connectors ...source.Connector) *Enricher {
	return &Enricher{
		connectors: connectors,
		now:        time.Now,
		wait:       sleepCtx,
	}
}

// WithClock overrides time and delay handling for tests.
func (e *Enricher) WithClock(now func() time.Time, wait func(context.Context, time.Duration)) *Enricher {
	e.now = now
	e.wait = wait
	return e
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Enrich runs the pipeline: dedupe, completeness split, grouped
// concurrent lookups with gap-filling merge, then stats. No per-record
// error ever propagates; the stats and the ContactEnriched flags are
// the caller's signal for partial failure.
func (e *Enricher) Enrich(ctx context.Context, records []model.BusinessRecord, opts Options) (*Result, error) {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 3
	}
	if opts.GroupDelay <= 0 {
		opts.GroupDelay = 2 * time.Second
	}

	stats := model.EnrichmentStats{TotalInput: len(records)}

	deduped, removed := Dedupe(records)
	stats.Deduplicated = removed

	complete, pending := SplitComplete(deduped)
	stats.SkippedComplete = len(complete)

	runID := uuid.NewString()
	zap.L().Info("enrich: starting batch",
		zap.String("run_id", runID),
		zap.Int("input", len(records)),
		zap.Int("deduplicated", removed),
		zap.Int("already_complete", len(complete)),
		zap.Int("pending", len(pending)),
		zap.Int("group_size", opts.MaxConcurrent),
	)

	enriched := make([]model.BusinessRecord, len(pending))
	anyFound := false

	for start := 0; start < len(pending); start += opts.MaxConcurrent {
		end := min(start+opts.MaxConcurrent, len(pending))

		if start > 0 {
			e.wait(ctx, opts.GroupDelay)
		}

		g, gctx := errgroup.WithContext(ctx)
		found := make([]bool, end-start)
		for i := start; i < end; i++ {
			g.Go(func() error {
				enriched[i], found[i-start] = e.enrichOne(gctx, pending[i])
				return nil
			})
		}
		_ = g.Wait()

		for _, f := range found {
			anyFound = anyFound || f
		}
	}

	out := append(enriched, complete...)
	for _, rec := range out {
		if rec.Phone != "" {
			stats.WithPhone++
		}
		if rec.Website != "" {
			stats.WithWebsite++
		}
		if rec.Email != "" {
			stats.WithEmail++
		}
	}
	stats.Success = anyFound

	zap.L().Info("enrich: batch complete",
		zap.String("run_id", runID),
		zap.Int("with_phone", stats.WithPhone),
		zap.Int("with_website", stats.WithWebsite),
		zap.Int("with_email", stats.WithEmail),
		zap.Bool("success", stats.Success),
	)

	return &Result{Businesses: out, Stats: stats}, nil
}

// enrichOne walks the fallback chain for a single record. The chain is
// re-evaluated after every merge so a connector whose target fields got
// filled by an earlier source is skipped. Panics and connector errors
// are contained here: the record comes back unchanged in the worst case.
func (e *Enricher) enrichOne(ctx context.Context, rec model.BusinessRecord) (out model.BusinessRecord, found bool) {
	out = rec
	// The social media map is shared with the caller's slice; clone
	// before any merge can touch it.
	out.SocialMedia = maps.Clone(rec.SocialMedia)

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("enrich: connector panic, record left unenriched",
				zap.String("title", rec.Title),
				zap.Any("panic", r),
			)
			out, found = rec, false
		}
	}()

	for _, conn := range e.connectors {
		if !conn.Applicable(out) {
			continue
		}
		cand, err := conn.Lookup(ctx, out)
		if err != nil {
			zap.L().Warn("enrich: source lookup failed",
				zap.String("source", conn.Name()),
				zap.String("title", out.Title),
				zap.Error(err),
			)
			continue
		}
		if cand == nil || cand.Empty() {
			continue
		}
		if mergeCandidate(&out, *cand) {
			found = true
			zap.L().Debug("enrich: merged candidate",
				zap.String("source", conn.Name()),
				zap.String("title", out.Title),
			)
		}
	}

	if out.HasContact() {
		out.ContactEnriched = true
		ts := e.now().UTC()
		out.EnrichmentDate = &ts
	}

	return out, found
}

// mergeCandidate fills empty fields of rec from cand. Populated fields
// are never overwritten. Reports whether anything changed.
func mergeCandidate(rec *model.BusinessRecord, cand model.ContactCandidate) bool {
	changed := false
	if rec.Phone == "" && cand.Phone != "" {
		rec.Phone = cand.Phone
		changed = true
	}
	if rec.Website == "" && cand.Website != "" {
		rec.Website = cand.Website
		changed = true
	}
	if rec.Email == "" && cand.Email != "" {
		rec.Email = cand.Email
		changed = true
	}
	for platform, link := range cand.SocialMedia {
		if link == "" {
			continue
		}
		if _, ok := rec.SocialMedia[platform]; ok {
			continue
		}
		if rec.SocialMedia == nil {
			rec.SocialMedia = make(map[string]string, len(cand.SocialMedia))
		}
		rec.SocialMedia[platform] = link
		changed = true
	}
	return changed
}
