/*
Package x contains the programs and decorators the ledger is built from.

Programs (system, token, deal) implement dealchain.Program and are addressed
by their program id. Decorators (sigs, utils) wrap the whole transaction.
Programs call each other through their exported controllers, the caller
grants derived address authority by extending the context (see
x.Authenticator).
*/
package x
