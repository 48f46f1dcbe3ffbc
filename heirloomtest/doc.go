/*
Package heirloomtest provides mocks and helpers for testing handlers,
decorators and extensions without a running application.
*/
package heirloomtest
