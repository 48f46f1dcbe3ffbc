/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object stored under a key derived
from its package name. The configuration is created from the genesis file
using InitConfig and can later be changed by its owner with a message
processed by the UpdateConfigurationHandler.
*/
package gconf
