// Package emit turns a group set into output files.
//
// For every configured target it selects groups (by inclusion or exclusion
// list), substitutes the placeholder token with the target's value, joins
// the lines with "\n" and atomically replaces the destination file.
package emit
