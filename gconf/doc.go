/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package owns a single configuration object stored under the "_c:<pkg>"
key. Configurations are loaded from the genesis "conf" section and validated
before they are written. A program that cannot load its configuration is
misconfigured and must fail every instruction.
*/
package gconf
