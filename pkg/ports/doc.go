/*
Package ports defines the driven ports (interfaces) for the syllabus engine.

These interfaces decouple the session controller from external implementations, allowing
it to work with various catalog formats, lesson repositories and ledger backends.

# Key Interfaces

  - CatalogSource: Loads the ordered curriculum (e.g., from a YAML file or memory).
  - LessonStore: Looks up opaque lesson content by topic id (e.g., a Loam markdown repo).
  - LedgerStore: Loads and appends to the progress ledger (file, Redis, memory).
  - DistributedLocker: Provides distributed locking when a ledger is shared between processes.
*/
package ports
