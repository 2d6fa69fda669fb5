// Package state defines the store contract query state is read from and
// written to, plus two reference implementations.
//
// Responsibilities:
//   - Store.Get decodes one consistent snapshot for a schema. Every key of the
//     schema is read from the same committed transition.
//   - Store.Set encodes a patch through the schema and applies every key of the
//     patch as one transition (push or replace).
//   - Batched writes are staged and coalesced into a single transition on the
//     next Flush or unbatched Set.
//
// Data flow:
//
//	raw strings -> codec.Schema -> codec.Snapshot -> filter/sorting/pagination
//
// MemoryStore keeps raw values in memory and is intended for tests, examples
// and server-side derivation. URLStore keeps them in the query string of a
// url.URL, encoding arrays as repeated keys and explicit nulls as a reserved
// token.
//
// Committed transitions are optionally announced through an activity.Emitter
// with the verbs "querystate.pushed" and "querystate.replaced".
package state
