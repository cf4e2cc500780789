/*
Package x contains some standard extensions.

Extensions implement common functionality (Handler, Decorator, etc.) and can
be combined together to construct an application. All sub-packages are
various extensions, useful to build applications, but not a necessary part of
the framework.

This package holds the contract between the host and the extensions for
caller identity.
*/
package x
