/*
Package runtime drives recipe execution.

The Executor owns the per-run context and walks each step through its state
machine: pending, an optional condition-driven skip, config resolution,
schema resolution, handler dispatch, output normalization. Execution is
strictly sequential; cancellation is honored at step boundaries only, and
per-step timeouts abandon the handler call without preempting it.
*/
package runtime
