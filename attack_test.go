package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttackOutgoingZeroWhenNoLinesCleared(t *testing.T) {
	res := LockResult{Cleared: 0}
	assert.Equal(t, 0, AttackOutgoing(res, 0))
}

func TestAttackOutgoingTetrisBase(t *testing.T) {
	res := LockResult{Cleared: 4, Kind: ClearPlain, Difficult: true}
	assert.Equal(t, 4, AttackOutgoing(res, 0))
}

func TestAttackOutgoingB2BAddsOne(t *testing.T) {
	res := LockResult{Cleared: 4, Kind: ClearPlain, Difficult: true, B2BActive: true}
	assert.Equal(t, 5, AttackOutgoing(res, 0))
}

func TestAttackOutgoingPerfectClearIsTenRegardlessOfKind(t *testing.T) {
	res := LockResult{Cleared: 1, PerfectClear: true}
	assert.Equal(t, 10, AttackOutgoing(res, 0))
}

// TestAttackOutgoingMonotonicInKOCount is spec section 8 property 7: for a
// fixed classification, outgoing garbage never decreases as koCount rises.
func TestAttackOutgoingMonotonicInKOCount(t *testing.T) {
	res := LockResult{Cleared: 2, Kind: ClearPlain, Difficult: false}
	prev := AttackOutgoing(res, 0)
	for ko := 1; ko <= 10; ko++ {
		got := AttackOutgoing(res, ko)
		assert.GreaterOrEqualf(t, got, prev, "outgoing garbage dropped between ko=%d and ko=%d", ko-1, ko)
		prev = got
	}
}

func TestAttackOutgoingNeverZeroWhenBasePositive(t *testing.T) {
	res := LockResult{Cleared: 2, Kind: ClearTSpin, Mini: true}
	// base=1 for a T-spin mini double; floor(1*1.0)=1, never rounds to 0.
	assert.Equal(t, 1, AttackOutgoing(res, 0))
}

func TestAttackOutgoingSingleLineNoSpinIsZero(t *testing.T) {
	res := LockResult{Cleared: 1, Kind: ClearPlain}
	assert.Equal(t, 0, AttackOutgoing(res, 0), "a plain single sends no garbage")
}
