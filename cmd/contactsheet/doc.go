// Command contactsheet matches tagged photo collections against a VCF
// contact file and writes the result as an organized file tree or a
// static HTML album.
package main
