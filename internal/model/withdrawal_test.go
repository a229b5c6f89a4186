package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalFee(t *testing.T) {
	fee := WithdrawalFee(decimal.NewFromInt(1000))
	require.True(t, fee.Equal(decimal.NewFromInt(100)), "fee = %s", fee)

	net := NetWithdrawalAmount(decimal.NewFromInt(1000))
	require.True(t, net.Equal(decimal.NewFromInt(900)), "net = %s", net)
}

func TestWithdrawalFeeRounds(t *testing.T) {
	// 99.99 * 10% = 9.999, rounds to 10.00
	fee := WithdrawalFee(decimal.RequireFromString("99.99"))
	require.True(t, fee.Equal(decimal.RequireFromString("10.00")), "fee = %s", fee)

	net := NetWithdrawalAmount(decimal.RequireFromString("99.99"))
	require.True(t, net.Equal(decimal.RequireFromString("89.99")), "net = %s", net)
}
