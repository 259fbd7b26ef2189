/*
Package ports defines the driven ports (interfaces) for the engine.

These interfaces decouple the executor from external implementations, allowing
it to work with various recipe sources and storage backends.

# Key Interfaces

  - RecipeLoader: retrieves raw recipe documents by name (filesystem, memory).
  - EntryStore: persists the entries written by the storage link types
    (memory, file, Redis, Postgres).
*/
package ports
