// Package medrec implements an in-memory patient record store with two
// indexes: a binary search tree ordered by patient name, which owns the
// records, and a binary search tree ordered by age, whose nodes group the
// records sharing one age for range queries.
//
// Neither tree is rebalanced, their shape follows the insertion order.
//
// Records are persisted as a newline delimited text file:
//
//	<name> <age> <gender> <medical_history> <diagnosis> <prescription>
//
// Fields are separated by single spaces. Whitespace inside a field is written
// as an escape sequence (\s, \t, \n, \r, \uXXXX), a backslash as \\ and an
// empty field as \e, so every line always holds six tokens. A file without
// backslashes is plain legacy format.
package medrec
