// Package diff parses zero-context unified diff output and maps line
// numbers in the new version of a file back to the old version.
//
// The hunk headers alone carry enough information for the mapping: each
// header records the old and new line ranges it replaces, so lines outside
// every hunk shift by a cumulative offset and lines inside a hunk either
// correspond positionally to an old line or were newly inserted.
package diff
