package instrument

import (
	"testing"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/weavetest"
	"github.com/iov-one/tst/weavetest/assert"
)

func TestMsgValidation(t *testing.T) {
	addr := weavetest.NewCondition().Address()
	many := make([]tst.Address, maxTerminateDepositors+1)
	for i := range many {
		many[i] = addr
	}

	cases := map[string]struct {
		msg     tst.Msg
		field   string
		wantErr *errors.Error
	}{
		"deposit of nothing is checked by the instrument": {
			msg:   &DepositMsg{},
			field: "Amount",
		},
		"redeem nothing": {
			msg:     &RedeemMsg{},
			field:   "Amount",
			wantErr: errors.ErrAmount,
		},
		"terminate nobody": {
			msg:     &TerminateMsg{},
			field:   "Depositors",
			wantErr: errors.ErrEmpty,
		},
		"terminate too many": {
			msg:     &TerminateMsg{Depositors: many},
			field:   "Depositors",
			wantErr: errors.ErrInput,
		},
		"terminate invalid address": {
			msg:     &TerminateMsg{Depositors: []tst.Address{addr, tst.Address("short")}},
			field:   "Depositors.1",
			wantErr: errors.ErrInput,
		},
		"collateral of nothing": {
			msg:     &DepositCollateralMsg{},
			field:   "Amount",
			wantErr: errors.ErrAmount,
		},
		"withdraw nothing": {
			msg:     &WithdrawCollateralMsg{},
			field:   "Amount",
			wantErr: errors.ErrAmount,
		},
		"propose without validator": {
			msg:     &ProposeDelegateMsg{},
			field:   "Validator",
			wantErr: errors.ErrInput,
		},
		"bootstrap without share ledger": {
			msg:     &BootstrapMsg{BalanceLedger: "balance"},
			field:   "ShareLedger",
			wantErr: errors.ErrEmpty,
		},
		"empty rewards": {
			msg:     &ReceiveRewardsMsg{},
			field:   "Amount",
			wantErr: errors.ErrAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			assert.FieldError(t, err, tc.field, tc.wantErr)
		})
	}
}
