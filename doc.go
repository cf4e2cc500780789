/*
Package tst defines the common interfaces used to weave together the packages
of the staking token engine, as well as implementations of some of the
simpler components.

Context is passed through context.Context between the application, the
decorators and the handlers. This package defines the keys for the
information provided by the host for every call: block height, block time,
chain id and the logger.

There exist two functions for every XYZ of type T that is supported in the
context:

	WithXYZ(context.Context, T) context.Context
	GetXYZ(context.Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so that a lower level module
cannot overwrite what the host declared.
*/
package tst
