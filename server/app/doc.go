// Package app removes what a Mattermost installation keeps past its retention period.
//
// One pass runs three phases in order, all keyed on the same cutoff
// (now minus the retention days, in epoch milliseconds):
//
//	File Sweep:     page through FileInfo rows created before the cutoff and remove
//	                the primary, thumbnail and preview files from the data directory.
//	Metadata Purge: delete every FileInfo row created before the cutoff.
//	Post Purge:     optional, delete every Posts row created before the cutoff.
//
// Rows are deleted only after the sweep has finished, so a pass interrupted during
// the sweep can simply be run again: files already gone are counted as missing.
// In dry run nothing is removed or deleted and the result reports what a real pass would do.
//
// Implementation notes:
//
//	Offset paging is the default. The sweep does not delete rows while it pages, so
//	the offsets stay stable. Keyset paging (id order) is available for large tables.
//	The sweep stops at the first page shorter than the batch size.
package app
