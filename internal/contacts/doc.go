// Package contacts parses vCard (VCF) files into immutable contact
// records and exposes them as a Directory with a precomputed name index.
//
// VCF exports in the wild arrive in several encodings; Load decodes
// UTF-8, GB18030 (which covers GBK and GB2312), and Windows-1252 input
// transparently before parsing.
package contacts
