package roster

import "context"

// Repository describes roster-dimension reads needed by the collector.
type Repository interface {
	// ListActive returns players currently marked active, ordered by tag.
	ListActive(ctx context.Context) ([]SourcePlayer, error)
	// ListAll returns every roster entry, active or not. Enrichment
	// lookups cover retired players that still appear in battle logs.
	ListAll(ctx context.Context) ([]SourcePlayer, error)
}
