package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookRegistry_RunsInOrderAndStopsOnError(t *testing.T) {
	r := NewHookRegistry[*[]string]()
	boom := errors.New("boom")

	r.On(BeforeCreate, func(_ context.Context, log *[]string) error {
		*log = append(*log, "first")
		return nil
	})
	r.On(BeforeCreate, func(_ context.Context, log *[]string) error {
		*log = append(*log, "second")
		return boom
	})
	r.On(BeforeCreate, func(_ context.Context, log *[]string) error {
		*log = append(*log, "third")
		return nil
	})

	var log []string
	err := r.Run(context.Background(), BeforeCreate, &log)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, log)
}

func TestHookRegistry_OnAfterChange(t *testing.T) {
	r := NewHookRegistry[int]()
	calls := 0
	r.OnAfterChange(func(context.Context, int) error {
		calls++
		return nil
	})

	for _, ev := range []HookEvent{AfterCreate, AfterUpdate, AfterHistorical} {
		assert.Equal(t, 1, r.Len(ev))
		assert.NoError(t, r.Run(context.Background(), ev, 0))
	}
	assert.Equal(t, 3, calls)
	assert.NoError(t, r.Run(context.Background(), BeforeUpdate, 0))
}
