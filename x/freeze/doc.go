/*
Package freeze implements a wallet guard that blocks controller initiated
operations until a chosen moment.

A wallet freezes itself by executing FreezeMsg with its own authority. While
the block time is before the stored unfreeze time, the Guard rejects every
operation its controllers initiate. Operations executed by plug-ins never
consult the guard, so a dead man's switch can still hand the wallet over.
*/
package freeze
