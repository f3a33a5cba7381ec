/*
Package session implements cart ownership and persistence orchestration.

The Manager is the single owner of every session's cart. It serializes access
per session (locally, and across replicas when a distributed locker is
configured), hydrates carts from their stored snapshot, applies actions through
the pure domain reducer and writes the result back after every transition.

Storage is best effort: read, decode and write failures are logged, reported
through the lifecycle hooks and otherwise swallowed, so the shopper always
gets a working in-memory cart.
*/
package session
