package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTransaction_RollsBackInReverseOrder(t *testing.T) {
	var log []string
	step := func(name string, fail bool) func(context.Context) error {
		return func(context.Context) error {
			log = append(log, name)
			if fail {
				return errors.New(name + " exploded")
			}
			return nil
		}
	}

	tx := NewTransaction(zaptest.NewLogger(t))
	tx.AddOperation("a", step("op a", false))
	tx.AddCompensation("undo a", step("undo a", false))
	tx.AddOperation("b", step("op b", false))
	tx.AddCompensation("undo b", step("undo b", false))
	tx.AddOperation("c", step("op c", true))
	tx.AddCompensation("undo c", step("undo c", false))

	err := tx.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation 'c' failed")
	assert.Equal(t, []string{"op a", "op b", "op c", "undo b", "undo a"}, log)
}

func TestTransaction_CompensationsIgnoreCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var compensated bool

	tx := NewTransaction(nil)
	tx.AddOperation("a", func(context.Context) error { return nil })
	tx.AddCompensation("undo a", func(ctx context.Context) error {
		compensated = ctx.Err() == nil
		return nil
	})
	tx.AddOperation("b", func(context.Context) error {
		cancel()
		return context.Canceled
	})
	tx.AddCompensation("undo b", func(context.Context) error { return nil })

	err := tx.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, compensated)
}

func TestTransaction_FailedCompensationKeepsGoing(t *testing.T) {
	var undone []string
	tx := NewTransaction(zaptest.NewLogger(t))
	tx.AddOperation("a", func(context.Context) error { return nil })
	tx.AddCompensation("undo a", func(context.Context) error {
		undone = append(undone, "a")
		return nil
	})
	tx.AddOperation("b", func(context.Context) error { return nil })
	tx.AddCompensation("undo b", func(context.Context) error {
		undone = append(undone, "b")
		return errors.New("still broken")
	})
	tx.AddOperation("c", func(context.Context) error { return errors.New("boom") })

	require.Error(t, tx.Execute(context.Background()))
	assert.Equal(t, []string{"b", "a"}, undone)
	assert.Equal(t, 3, tx.Len())
}
