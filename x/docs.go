/*
Package x contains the extensions of the application.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together in the app package. Every extension
receives an Authenticator in its constructor so that the source of
authentication (signatures, wallet authority, plug-in authority) can be
plugged in rather than hard-coded.
*/
package x
