package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
	if stats := store.Stats(); stats.Loads != 1 || stats.Hits == 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2024, 8, 16, 18, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "players:all", []int{1, 2})
	if _, ok := store.Get(context.Background(), "players:all"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "players:all"); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	store.Set(context.Background(), "player:list", 1)
	store.Set(context.Background(), "player:id:7", 2)
	store.Set(context.Background(), "team:list", 3)

	store.DeletePrefix(context.Background(), "player:")

	if _, ok := store.Get(context.Background(), "player:id:7"); ok {
		t.Fatalf("expected player keys to be deleted")
	}
	if _, ok := store.Get(context.Background(), "team:list"); !ok {
		t.Fatalf("expected team key to survive")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errUnexpectedValue
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("expected reload after error, got %v %v", v, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
