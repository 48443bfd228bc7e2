package usecase

import "github.com/degplus/brawl-collector/internal/domain/roster"

// Enrichment carries participant attributes known independently of any
// battle, resolved from the roster dimension.
type Enrichment struct {
	Team     string
	ImageURL string
}

// EnrichmentResolver answers tag lookups from an in-memory snapshot of
// the roster, loaded once per run. A miss is a normal outcome: most
// battle participants are outside the tracked roster.
type EnrichmentResolver struct {
	byTag map[string]Enrichment
}

func NewEnrichmentResolver() *EnrichmentResolver {
	return &EnrichmentResolver{byTag: map[string]Enrichment{}}
}

// Load replaces the snapshot. Entries without a tag are skipped.
func (r *EnrichmentResolver) Load(players []roster.SourcePlayer) {
	byTag := make(map[string]Enrichment, len(players))
	for _, p := range players {
		if p.Tag == "" {
			continue
		}
		byTag[p.Tag] = Enrichment{
			Team:     p.Team,
			ImageURL: p.ImageURL,
		}
	}
	r.byTag = byTag
}

func (r *EnrichmentResolver) Resolve(tag string) (Enrichment, bool) {
	if r == nil || r.byTag == nil {
		return Enrichment{}, false
	}
	e, ok := r.byTag[tag]
	return e, ok
}

func (r *EnrichmentResolver) Size() int {
	if r == nil {
		return 0
	}
	return len(r.byTag)
}
