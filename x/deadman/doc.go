/*
Package deadman implements a dead man's switch for wallets.

A wallet protected by a switch must regularly prove liveness by a check in of
one of its controllers. When no check in happens within the heartbeat
interval, the beneficiary may start a claim. After the challenge period
elapses without a check in, the beneficiary can finalize the claim and
replaces the primary controller of the wallet.

Finalization acts on the wallet with plug-in authority of the condition
returned by PluginCondition, so the wallet must enable it as a plug-in.
*/
package deadman
