/*
Package cash keeps the native value held by every account.

There is no logic in the value itself, except that the balance of any
account may not go below zero. Value enters the system only through the
genesis file; afterwards it is only moved between accounts. Contracts that
accept value, like the instrument, receive it into their own account and pay
it back out with MoveCoins.
*/
package cash
