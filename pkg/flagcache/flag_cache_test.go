package flagcache

import (
	"testing"
	"time"

	"allnimall-store-be/internal/entity"

	"github.com/google/uuid"
)

func testFlags(n int) []*entity.FeatureFlag {
	flags := make([]*entity.FeatureFlag, n)
	for i := range flags {
		flags[i] = &entity.FeatureFlag{Id: uuid.New(), FeatureName: "stores", Enabled: true}
	}
	return flags
}

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	planId := uuid.NewString()

	if _, found := c.Get(planId); found {
		t.Fatal("empty cache reported a hit")
	}

	c.Set(planId, testFlags(2))
	flags, found := c.Get(planId)
	if !found {
		t.Fatal("expected a hit after Set")
	}
	if len(flags) != 2 {
		t.Fatalf("got %d flags, want 2", len(flags))
	}
}

func TestEmptyPlanIdIsTheAllKey(t *testing.T) {
	c := New(time.Minute)

	c.Set("", testFlags(3))
	flags, found := c.Get("")
	if !found || len(flags) != 3 {
		t.Fatalf("all-plans entry not readable back: found=%v len=%d", found, len(flags))
	}

	// A plan entry does not collide with the all-plans entry.
	planId := uuid.NewString()
	c.Set(planId, testFlags(1))
	flags, _ = c.Get("")
	if len(flags) != 3 {
		t.Fatalf("plan entry overwrote the all-plans entry: len=%d", len(flags))
	}
}

func TestInvalidateDropsPlanAndAll(t *testing.T) {
	c := New(time.Minute)
	planId := uuid.NewString()
	other := uuid.NewString()

	c.Set(planId, testFlags(1))
	c.Set(other, testFlags(1))
	c.Set("", testFlags(5))

	c.Invalidate(planId)

	if _, found := c.Get(planId); found {
		t.Error("invalidated plan entry still cached")
	}
	if _, found := c.Get(""); found {
		t.Error("all-plans entry must be dropped with the plan entry")
	}
	if _, found := c.Get(other); !found {
		t.Error("unrelated plan entry was evicted")
	}
}

func TestEntriesExpire(t *testing.T) {
	c := New(20 * time.Millisecond)
	planId := uuid.NewString()

	c.Set(planId, testFlags(1))
	if _, found := c.Get(planId); !found {
		t.Fatal("entry missing before TTL")
	}

	time.Sleep(40 * time.Millisecond)
	if _, found := c.Get(planId); found {
		t.Error("entry survived past its TTL")
	}
}
