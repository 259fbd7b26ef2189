/*
Package domain contains the core types shared across the engine: recipes and
their step specifications, the per-run execution state, step outputs, run and
step status values, lifecycle hooks and the error taxonomy.

The types here are plain data. All behaviour (template resolution, schema
validation, dispatch) lives in the sibling packages that operate on them.
*/
package domain
