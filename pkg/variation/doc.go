// Package variation derives the known variations of a phenotype from the
// free-text variations users reported for it.
//
// Compute is pure: it deduplicates case-insensitively, keeps the casing of the
// first report of each value, and preserves the order in which distinct values
// first appear. Whitespace is significant; callers that want trimmed values
// must trim before storing the report.
//
// Cache memoizes Compute results per phenotype ID. Writers must call
// Invalidate after adding a report so the next read observes it.
package variation
