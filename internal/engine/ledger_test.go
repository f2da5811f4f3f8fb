package engine

import (
	"testing"

	"github.com/cyberchess/cyberchess/internal/game"
)

func TestSpend_AllOrNothing(t *testing.T) {
	pools := []game.Resource{
		{Name: "compute", Value: 100, Max: 100},
		{Name: "time", Value: 50, Max: 50},
	}
	err := Spend(pools, map[string]int{"compute": 50, "time": 60})
	if err == nil {
		t.Fatalf("expected error for unaffordable bundle")
	}
	if resourceValue(pools, "compute") != 100 || resourceValue(pools, "time") != 50 {
		t.Fatalf("partial deduction observed: compute=%d time=%d",
			resourceValue(pools, "compute"), resourceValue(pools, "time"))
	}

	if err := Spend(pools, map[string]int{"compute": 50, "time": 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resourceValue(pools, "compute") != 50 || resourceValue(pools, "time") != 40 {
		t.Fatalf("wrong balances after spend: compute=%d time=%d",
			resourceValue(pools, "compute"), resourceValue(pools, "time"))
	}
}

func TestCanAfford_UnknownKeyFailsClosed(t *testing.T) {
	pools := []game.Resource{{Name: "compute", Value: 100, Max: 100}}
	if CanAfford(pools, map[string]int{"mana": 1}) {
		t.Fatalf("unknown resource key should not be affordable")
	}
	if err := Spend(pools, map[string]int{"mana": 1}); err != ErrInsufficientResources {
		t.Fatalf("expected ErrInsufficientResources, got %v", err)
	}
}

func TestRegenerate_CeilAndClamp(t *testing.T) {
	pools := []game.Resource{
		{Name: "compute", Value: 95, Max: 100},
		{Name: "zeroday", Value: 0, Max: 5},
	}
	Regenerate(pools, 0.1)
	// 95 + ceil(100*0.1) = 105, clamped to 100
	if got := resourceValue(pools, "compute"); got != 100 {
		t.Fatalf("expected compute=100, got %d", got)
	}
	// 0 + ceil(5*0.1) = 1
	if got := resourceValue(pools, "zeroday"); got != 1 {
		t.Fatalf("expected zeroday=1, got %d", got)
	}
}
