package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreFailuresAreSafeToToggle(t *testing.T) {
	store := NewMemoryStore()
	store.AddAccount("admin", "admin@astra.io", "password123", true)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.FailRoles(errors.New("timeout"))
			store.FailList(nil)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.IsAdmin(ctx, "admin")
			_, _ = store.ListProfiles(ctx, 10)
		}()
	}
	wg.Wait()

	store.FailRoles(nil)
	isAdmin, err := store.IsAdmin(ctx, "admin")
	assert.NoError(t, err)
	assert.True(t, isAdmin)
}
