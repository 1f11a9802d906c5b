// Package preflight checks the input and output roots before a run starts.
//
// Access problems with the input root, or an output root that cannot be
// created, fail the run before any job is discovered. A free-space shortfall
// on the output filesystem is only reported; the copier surfaces real
// ENOSPC failures per job.
package preflight
