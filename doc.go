// Package corotick implements a cooperative coroutine runtime with
// pause/resume semantics, time-advanced ticking, structured composition
// (sequential nesting and bounded parallelism), and live-state snapshot and
// reconstruction of suspended coroutines.
//
// The package is organized around two tightly coupled subsystems:
//
//   - The scheduler ([CoroutineExecutor], [CoroutineThread]): an executor
//     that owns logical coroutine threads, each holding a call stack of
//     suspended [Generator]s, and a per-tick drive loop that advances time
//     and dispatches [CoroutineAction] yields.
//   - The snapshot engine ([GeneratorRegistry], [GeneratorDescriptor],
//     [SnapshotEngine]): a mechanism to capture a still-suspended generator
//     frame into a neutral [FrameSnapshot] record, and to instantiate a
//     fresh generator of the same registered method seeded with that
//     record so it resumes at the captured point.
//
// The core is stdlib-only and single-threaded cooperative: a
// [CoroutineExecutor] must be confined to one goroutine across its
// lifetime. Wire-format serialization, logging, and persistence are
// layered on top by the internal/production and internal/extensibility
// packages; see those for adapters.
package corotick
