// Package sanitizer provides input normalization for user-supplied text.
//
// All functions are idempotent: applying them multiple times produces the same
// result. Invalid input degrades to an empty string rather than an error, so
// callers validate after sanitizing.
//
// Normalization includes:
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Comparison keys: the normalized string lowercased
//   - Filenames: keep letters, digits, dots and dashes; everything else becomes "_"
package sanitizer
