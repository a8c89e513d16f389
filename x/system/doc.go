/*
Package system implements native ledger accounts.

Every address may hold an account: a native balance, the program owning the
account and opaque data only the owner program may interpret. Accounts whose
balance drops to zero are removed from the state. Programs create accounts
through the Controller; to keep an account alive its balance must cover the
rent exemption minimum for its data size.
*/
package system
