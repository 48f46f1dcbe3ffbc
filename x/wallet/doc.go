/*
Package wallet implements a minimal custodial multi-controller wallet.

A wallet is a list of controllers, a list of enabled plug-ins and a flag
telling whether the attached guard must be consulted. Controllers act on
the wallet by sending a transaction that declares the wallet ID. The
Decorator authenticates that one of the controllers signed it, consults
the guard before and after the operation, and grants wallet authority
(the "wallet/seq/<id>" condition) to the message handler.

Plug-ins do not use transactions. An extension that was enabled as a
plug-in calls Controller.ExecuteAsPlugin, which grants wallet authority
and executes the message directly, skipping the decorator and therefore
the guard.
*/
package wallet
