// Package services implements the editorial workflow on top of the repositories.
//
// # Content synchronization
//
// [ContentsService] owns the Content aggregate. Creating a content may create its medium,
// reunion and list; updating it propagates dates and statuses to those linked entities;
// removing it deletes the reunion and list and reverts the medium to in_progress.
//
// Propagation is expressed as [SyncInstruction] values. The planner computes the desired
// state of each linked entity from the content, and a single dispatcher diffs every
// instruction against the stored target and writes only when something changed. The entity
// that started the request is never written back to, so propagation is one hop and cannot loop.
//
// # Medium lifecycle
//
// [MediumService] is instantiated once per [models.MediumKind]. Status transitions into
// editing or ready create the wrapping content, transitions into in_progress remove it,
// and publishing requires an update date that becomes the content's publication date.
//
// # Lists
//
// [ListsService] generates the weekly radar and monthly best-of lists, and mirrors list
// date edits back onto the owning content.
//
// # Transactions
//
// Every public operation runs inside one [repositories.Store.WithTx] transaction, so a
// failing step rolls back every write made by the same request.
package services
