/*
Package domain contains the core domain models for the Arbor storylet engine.

It defines the authored content (qualities, locations, storylets), the expression and
template trees embedded in that content, the player state snapshot, and the rendered
session output handed to presentation layers. This package is kept pure and free of
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Model: The compiled content, loaded once and never mutated.
  - Expression: A numeric/logical tree (number, reference, or operation).
  - Template: Rich text with embedded conditionals, rendered into Text.
  - Conditional: A condition -> value -> fallback chain.
  - Snapshot: The persisted player state (qualities, location, pending storylet).
  - SessionState: What one Continue/Choose call returns to the host.
*/
package domain
