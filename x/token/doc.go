/*
Package token implements fungible ledgers. Many ledgers can live side by
side, each identified by its name.

A ledger is created by the genesis with a deployer. The deployer can
bootstrap the ledger once, naming its parent: the only account that may mint
and burn tokens. Holders can transfer their tokens, and allow other accounts
to transfer on their behalf.

Other extensions read a ledger only through its views, the same way an
external caller would.
*/
package token
