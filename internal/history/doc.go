// Package history persists past runs in a SQLite database so earlier
// matching outcomes stay inspectable after the output tree changes.
package history
