// Package session owns the wallet client's authenticated-session state and its
// durable persistence.
//
// # Persistence model
//
// A [Store] persists a small set of string keys (authenticated flag, role,
// identity snapshot, session token) in a pluggable key-value backend. [MemoryKV] is ephemeral, [FileKV] persists to a local JSON
// file, and [RedisKV] persists to Redis for multi-process clients.
//
// # Invariants
//
// Every session handed out by a [Store] satisfies:
//
//   - Role != RoleNone implies Authenticated.
//   - !Authenticated implies Role == RoleNone and Identity == nil.
//
// Absent or corrupt persisted state never produces an error on restore; it
// normalizes to the zero (logged-out) session.
//
// # Architecture boundaries
//
// This package owns session state and persistence only. It does NOT talk to the
// wallet backend, route views, or decide what an expired token means — those
// responsibilities belong to the root payease package.
package session
