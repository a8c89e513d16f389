/*
Package dealchain defines the interfaces shared by the ledger runtime and the
programs running on it: addresses and program derived addresses, storage,
transactions with their instructions, handlers and decorators.

We pass context through context.Context between app, decorators and
programs. Framework defined information, such as block height and chain id,
is stored under private keys and must be set exactly once.

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

Look into the x/ directory for the programs (system, token, deal) built on
top of these interfaces.
*/
package dealchain
