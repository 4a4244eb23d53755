// Package listing implements the wall's presentation logic: per-user
// deduplication of the feed, the featured carousel rotation, paged and
// incremental grid views, and a generation-stamped fetch cache. It owns
// derived display state only and never mutates the record sequence it is
// given.
package listing

import "messagewall/internal/server/records"

// FeaturedCount is the size of the rotating carousel subset.
const FeaturedCount = 9

// DedupeByEmail keeps the first (newest) record per distinct email,
// preserving input order, stopping once limit records are collected.
// A limit <= 0 means no cap.
func DedupeByEmail(recs []*records.Record, limit int) []*records.Record {
	seen := make(map[string]struct{}, len(recs))
	unique := make([]*records.Record, 0, len(recs))

	for _, rec := range recs {
		if !rec.HasMessage() {
			continue
		}
		if _, ok := seen[rec.Email]; ok {
			continue
		}
		seen[rec.Email] = struct{}{}
		unique = append(unique, rec)
		if limit > 0 && len(unique) >= limit {
			break
		}
	}

	return unique
}

// Split divides the deduplicated feed into the featured carousel subset
// (first FeaturedCount entries) and the remainder shown in the grid.
func Split(recs []*records.Record) (featured, remainder []*records.Record) {
	if len(recs) <= FeaturedCount {
		return recs, nil
	}
	return recs[:FeaturedCount], recs[FeaturedCount:]
}
