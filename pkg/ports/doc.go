/*
Package ports defines the driven ports (interfaces) for the Arbor engine.

These interfaces decouple the session engine from storage and content sources,
allowing the same runtime to play against memory, files, Redis or SQLite.

# Key Interfaces

  - Store / Transaction: Serialized, transactional access to player state.
  - KeyValue: The single-slot persistence collaborator behind persisting stores.
  - ModelLoader: Responsible for loading the compiled content.
  - SlotLocker: Optional cross-process lock on a slot.

The package also ships contract suites (RunKeyValueContract, RunStoreContract)
that every adapter runs from its own tests.
*/
package ports
