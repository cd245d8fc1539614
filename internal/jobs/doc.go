// Package jobs holds the operator's job definitions: a draft of time ranges
// being assembled for one job code, and the committed collection of jobs that
// is serialized into solver requirement lines of the form "<code> r1,r2".
//
// Neither Draft nor Store is safe for concurrent use; owners serialize access.
package jobs
