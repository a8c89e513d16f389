/*
Package deal implements a two-party token swap held in escrow by the ledger.

The initializer opens a deal with Init: the offered tokens move into a vault
owned by the deal storage address, a program derived address nobody holds a
key for. The taker completes it with Exchange, delivering the expected amount
of the other asset and receiving the whole vault in the same transaction.
After that the vault and the deal storage are closed and their native
balance returns to the initializer.
*/
package deal
