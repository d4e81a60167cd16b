package property

import (
	"reflect"
	"sync"
	"testing"
)

func TestPropertyAccessors(t *testing.T) {
	p := Property{
		PurchasePrice:  "450000",
		NumberOfUnits:  "4",
		AnnualRent:     36000,
		ParkingRevenue: "x",
		City:           "  Montréal ",
	}

	if got := p.PurchasePrice(); got != 450000 {
		t.Errorf("PurchasePrice() = %v, expected 450000", got)
	}
	if got := p.Units(); got != 4 {
		t.Errorf("Units() = %v, expected 4", got)
	}
	if got := p.Sum(AnnualRent, ParkingRevenue, OtherRevenue); got != 36000 {
		t.Errorf("Sum() = %v, expected 36000", got)
	}
	if got := p.Text(City); got != "Montréal" {
		t.Errorf("Text() = %q, expected %q", got, "Montréal")
	}
	if p.Has(ParkingRevenue) {
		t.Errorf("expected non-numeric field to be reported as absent")
	}
	if got := p.NumberOr(AppreciationRate, 3); got != 3 {
		t.Errorf("NumberOr() = %v, expected fallback 3", got)
	}
}

func TestUnitsDefault(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected int
	}{
		{"Missing", nil, 1},
		{"Zero", 0, 1},
		{"Negative", "-3", 1},
		{"Garbage", "many", 1},
		{"Valid", "12", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Property{}
			if tt.value != nil {
				p[NumberOfUnits] = tt.value
			}
			if got := p.Units(); got != tt.expected {
				t.Errorf("Units() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestNegativePriceTreatedAsZero(t *testing.T) {
	p := Property{PurchasePrice: -5}
	if got := p.PurchasePrice(); got != 0 {
		t.Errorf("PurchasePrice() = %v, expected 0", got)
	}
}

func TestApplyDoesNotMutateOriginal(t *testing.T) {
	original := Property{WelcomeTax: "100", CMHCTax: "50"}
	updated := original.Apply(Patch{WelcomeTax: 2245, CMHCTax: nil})

	if original[WelcomeTax] != "100" || original[CMHCTax] != "50" {
		t.Errorf("original record was mutated: %v", original)
	}
	if updated[WelcomeTax] != 2245 {
		t.Errorf("expected patched welcome tax, got %v", updated[WelcomeTax])
	}
	if _, ok := updated[CMHCTax]; ok {
		t.Errorf("expected nil patch value to remove the field")
	}
}

func TestKeysSorted(t *testing.T) {
	p := Property{"b": 1, "a": 2, "c": 3}
	if got := p.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestStore(t *testing.T) {
	store := NewStore(Property{PurchasePrice: 1})

	var mu sync.Mutex
	var seen []Property
	store.Subscribe(func(p Property) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, p)
	})

	store.ApplyPatch(Patch{})
	store.ApplyPatch(Patch{PurchasePrice: 2})
	store.Replace(Property{PurchasePrice: 3})

	if got := store.CurrentValue().Number(PurchasePrice); got != 3 {
		t.Errorf("CurrentValue() price = %v, expected 3", got)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[0].Number(PurchasePrice) != 2 {
		t.Errorf("first notification price = %v, expected 2", seen[0].Number(PurchasePrice))
	}

	snapshot := store.CurrentValue()
	snapshot[PurchasePrice] = 99
	if store.CurrentValue().Number(PurchasePrice) != 3 {
		t.Errorf("mutating a snapshot changed the store")
	}
}
