package coop_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coopkit/coop"
)

func TestWaitGroup(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	var wg coop.WaitGroup

	myExecutor.Spawn(coop.Do(func() { wg.Add(2) }))

	var done bool

	myExecutor.Spawn(wg.Await().Then(coop.Do(func() { done = true })))

	myExecutor.Spawn(coop.Do(wg.Done))
	require.False(t, done)

	myExecutor.Spawn(coop.Do(wg.Done))
	require.True(t, done)
}

func TestWaitGroupAlreadyZero(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	var wg coop.WaitGroup

	var done bool

	// Awaiting a zero counter ends without yielding.
	myExecutor.Spawn(wg.Await().Then(coop.Do(func() { done = true })))

	require.True(t, done)
}

func TestWaitGroupNegative(t *testing.T) {
	var wg coop.WaitGroup

	require.Panics(t, func() { wg.Done() })
}
