// Package report summarizes a matching run: how many tags resolved,
// which did not, and which directory records nothing referenced.
package report
