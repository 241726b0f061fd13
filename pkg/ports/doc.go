/*
Package ports defines the driven ports (interfaces) of the Parcel advisor.

These interfaces decouple the advisory core from external implementations, so the
same orchestration can persist reports in memory, on disk, in Redis or SQLite and
draft its narrative with a deterministic writer or a hosted language model.

# Key Interfaces

  - ReportStore: Persists advisory reports so paused runs can be resubmitted.
  - Generator: Drafts the narrative text of one advisory task.
  - ListingLoader: Enumerates property listings for batch analysis.
*/
package ports
