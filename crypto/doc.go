/*
Package crypto holds the keys and signatures used to authenticate
transactions. Only ed25519 is supported.

A public key is turned into a condition "sigs/ed25519/<key>" and its
address is what the rest of the application uses as an identity.
*/
package crypto
