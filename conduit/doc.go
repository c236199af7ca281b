// Package conduit provides a composable, pull-based stream-processing
// engine: small programs ("pipes") that produce, transform, or consume a
// sequence of values one item at a time, connected into pipelines without
// buffering whole collections in memory.
//
// A running pipe is represented by a Step, one of four states:
//
//   - NeedInput: suspended, waiting for an input item or notice that the
//     upstream is exhausted
//   - HaveOutput: suspended, holding one output item and a continuation
//   - Done: terminal, carrying the final result and any unconsumed input
//     ("leftovers")
//   - RegisterCleanup: suspended, requesting that an action run when the
//     overall pipeline finishes, normally or not
//
// Pipes compose two ways. Connect is horizontal composition: one pipe's
// output feeds the next pipe's input, with the downstream side driving
// the pull so at most one item is ever in flight. Bind is vertical
// composition: a pipe's eventual result feeds the construction of the
// next pipe, with leftovers re-injected so no input is lost between them.
//
// Connect enforces the role table at composition time:
//
//	Connect(source, conduit) -> source
//	Connect(conduit, conduit) -> conduit
//	Connect(conduit, sink) -> sink
//	Connect(source, sink) -> runs the pipeline, result via Pipe.Result
//
// A nil upstream is the identity element; every other pairing is an
// invalid-composition error. Run drives a fully composed pipeline to its
// result, unwinding registered cleanup actions in reverse-registration
// order even when user code panics.
//
// Everything here is single-threaded and cooperative: "blocking" means
// returning a suspended Step to the caller, who resumes it by invoking
// the corresponding continuation. There are no goroutines, channels, or
// locks inside the engine, and no cancellation — a sink that finishes
// early simply never resumes upstream, so sources holding resources must
// use RegisterCleanup rather than rely on being drained.
//
// The combinator library built on these primitives (await, yield, map,
// filter, collect and friends) lives in the operators package.
package conduit
