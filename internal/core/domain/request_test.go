package domain_test

import (
	"testing"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestNextStatus_LegalTransitions(t *testing.T) {
	cases := []struct {
		from   domain.RequestStatus
		action domain.RequestAction
		want   domain.RequestStatus
	}{
		{domain.StatusPending, domain.ActionApprove, domain.StatusApproved},
		{domain.StatusPending, domain.ActionReject, domain.StatusRejected},
		{domain.StatusApproved, domain.ActionReject, domain.StatusRejected},
		{domain.StatusApproved, domain.ActionCheckout, domain.StatusCheckedOut},
		{domain.StatusCheckedOut, domain.ActionCheckIn, domain.StatusPartialReturn},
		{domain.StatusPartialReturn, domain.ActionCheckIn, domain.StatusPartialReturn},
	}

	for _, tc := range cases {
		next, ok := domain.NextStatus(tc.from, tc.action)
		assert.True(t, ok, "%s + %s should be legal", tc.from, tc.action)
		assert.Equal(t, tc.want, next)
	}
}

func TestNextStatus_IllegalTransitions(t *testing.T) {
	cases := []struct {
		from   domain.RequestStatus
		action domain.RequestAction
	}{
		{domain.StatusPending, domain.ActionCheckout}, // checkout before approval
		{domain.StatusPending, domain.ActionCheckIn},
		{domain.StatusApproved, domain.ActionApprove},
		{domain.StatusCheckedOut, domain.ActionApprove},
		{domain.StatusCheckedOut, domain.ActionReject},
		{domain.StatusRejected, domain.ActionApprove}, // terminal
		{domain.StatusRejected, domain.ActionCheckout},
		{domain.StatusReturned, domain.ActionCheckIn}, // terminal
		{domain.StatusReturned, domain.ActionReject},
	}

	for _, tc := range cases {
		_, ok := domain.NextStatus(tc.from, tc.action)
		assert.False(t, ok, "%s + %s should be rejected", tc.from, tc.action)
	}
}

func TestValidReturnStatus(t *testing.T) {
	assert.True(t, domain.ValidReturnStatus(domain.ReturnGood))
	assert.True(t, domain.ValidReturnStatus(domain.ReturnDamaged))
	assert.True(t, domain.ValidReturnStatus(domain.ReturnLost))
	assert.False(t, domain.ValidReturnStatus("BROKEN"))
	assert.False(t, domain.ValidReturnStatus(""))
}
