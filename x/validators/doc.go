/*
Package validators records the validator that each account delegates its
stake to.

Changing a delegate is the host primitive used by contracts that hold
stake. The genesis can declare the set of known validators; when it does,
only those can be chosen as a delegate.
*/
package validators
