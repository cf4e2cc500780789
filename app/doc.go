/*
Package app contains the host side of the engine: routing messages to
handlers, chaining decorators, loading the genesis file and the Application
that serializes all calls against a committed store.
*/
package app
