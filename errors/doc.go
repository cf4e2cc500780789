/*
Package errors implements coded errors for the instrument engine.

Every error returned by a handler should wrap one of the root errors declared
with Register. The root error carries a unique code, so a client can tell
rejections apart without parsing messages. Use Wrap or Wrapf at the point of
creation to attach a stack trace; wrapping again only adds context.

	%s prints the message chain
	%+v prints the message chain and the stack trace of the innermost wrap

Validation failures of a single model are reported with Field and combined
with Append or AppendField, so that each problem can be tested separately
using FieldErrors.
*/
package errors
