// Package match resolves identity tags against a contact directory.
//
// Resolution is a pure function of (tag, directory): the resolver never
// mutates its inputs and repeated calls yield identical results. Name
// collisions are settled by a fixed rule ladder: exact affiliation match,
// then affiliation-as-subsequence match, then preference for records that
// carry any affiliation, and finally original directory order.
package match
