// Package organize materializes matched assignments as a file tree.
//
// Each matched folder assignment becomes a directory under the output
// root holding one text file per resolved contact and a photo
// subdirectory with copies of the source images. A lock file under the
// output root keeps concurrent runs from interleaving writes.
package organize
