// Package payease is a client for a peer-to-peer wallet backend: it owns the
// session/authorization state machine, the money-transfer submission workflow,
// and the admin roster manager, so embedding programs drive the backend through
// one typed surface instead of ad-hoc request code.
//
// # Layout
//
// The [Client] is assembled through a [Builder] and wires together:
//
//   - [session.Store] — durable session state (memory, file, or Redis backed).
//   - [gateway.API] — the backend's request/response contract.
//   - [TransferWorkflow] — one dashboard's send-money state machine.
//   - [RosterManager] — the admin account list with confirmed deletion.
//
// # Authority
//
// The backend owns balances and ledgers. The client caches them and only ever
// replaces the cache wholesale from a server response; it never derives a
// balance by local arithmetic.
package payease
