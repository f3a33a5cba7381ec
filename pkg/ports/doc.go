/*
Package ports defines the driven ports (interfaces) of the store.

These interfaces decouple the cart and checkout logic from external
implementations, allowing the same session manager to run over memory, file or
redis storage and to hand orders to any delivery channel.

# Key Interfaces

  - SnapshotStore: Persists the serialized cart snapshot of a session.
  - DistributedLocker: Provides distributed locking for concurrent session access.
  - OrderSubmitter: Delivers an assembled order (e.g., EmailJS, console).
*/
package ports
