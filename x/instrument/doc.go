/*
Package instrument implements a collateral backed, fixed term staking
instrument.

Depositors lock native value and receive a claim on the balance ledger. The
value of a claim rises along the redemption schedule, from a discount at the
first period up to par at maturity. The discount is backed by the collateral
pool, funded by guarantors who receive shares on the share ledger in return.
Shares are redeemable for a proportional part of the free collateral, which
grows with rewards and with collateral released by redemptions.

Guarantors also choose the validator the instrument delegates to, by a
stake weighted vote.

The instrument never caches ledger state. Every balance and total supply is
read through the ledger views at the time it is needed, and every local
state change is saved before a ledger is called.
*/
package instrument
