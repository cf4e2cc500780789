/*
Package gconf provides a toolset for managing an extension configuration.

Configuration is loaded from the genesis file once and stored in the
database as a singleton under a key derived from the extension name. It
cannot be changed afterwards: the parameters of a running instrument are part
of the promise made to depositors and guarantors.
*/
package gconf
