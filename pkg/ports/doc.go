/*
Package ports defines the driven ports (interfaces) of the hydroplant bridge.

These interfaces decouple the session, synchronization and action logic from
concrete wallets, chains and user interfaces.

# Key Interfaces

  - Wallet: account authorization and signer lookup (JSON-RPC wallet, local key, simulator).
  - Signer: submits a call as a transaction on behalf of one account.
  - PlantContract: the three HydrationPlant methods bound to a signer.
  - Presenter and Notifier: the outbound side of the presentation adapter.
*/
package ports
