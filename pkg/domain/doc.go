/*
Package domain contains the core models of the hydroplant bridge.

It defines the normalized on-chain snapshot, the lifecycle events and the error
taxonomy shared by every component. This package is kept free of I/O: it only
knows about addresses and numbers, never about RPC clients or terminals.

# Key Entities

  - Snapshot: the last (water count, stage) pair read from the contract.
  - LifecycleHooks: callbacks for observability (metrics, debug logging).
*/
package domain
