/*
Package token implements fungible assets on top of native accounts.

A mint describes an asset, a token account holds a balance of one mint for
one owner. Both live in the data of native accounts owned by the token
program. The associated token program derives a canonical token account
address for every (owner, mint) pair, so that counterparties can find each
other's accounts without coordination.
*/
package token
