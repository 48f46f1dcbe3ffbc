/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain per-signer sequences for replay protection.

Every valid signature adds the "sigs/ed25519/<pubkey>" condition of the
signer to the context. Its address is the identity used by the wallet,
deadman and freeze extensions.
*/
package sigs
