/*
Package domain contains the core domain models of the syllabus engine.

It defines the curriculum entities (Topics and the ordered Catalog), the append-only
progress Ledger, the closed set of workspace Strategies and the MutationReport produced
when a workspace is brought in line with a Topic. The package is kept pure and free of
I/O, following Hexagonal Architecture principles.

# Key Entities

  - Topic: One curriculum unit (id, category, description, steps).
  - Catalog: The fixed, ordered list of Topics.
  - Ledger: Append-only record of completed Topic ids.
  - Strategy: The workspace shape a Topic's category maps to.
  - Session: The runtime snapshot of one pass through the session state machine.
*/
package domain
