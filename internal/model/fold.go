package model

import "golang.org/x/text/cases"

// Fold returns s under Unicode case folding. Two strings that differ only in
// case fold to the same value, so folded columns support case-insensitive
// equality and substring search in SQL.
func Fold(s string) string {
	return cases.Fold().String(s)
}
