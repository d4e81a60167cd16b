package welcometax

import (
	"math"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected float64
	}{
		{"Zero price", 0, 0},
		{"Negative price", -100000, 0},
		{"Inside first bracket", 40000, 200},
		{"Top of first bracket", 50999.99, 254.99995},
		{"Reference price 250k", 250000, 2245.00005},
		{"Inside third bracket", 400000, 254.99995 + 2040 + 2175.00015},
		{"Reference price 450k", 450000, 254.99995 + 2040 + 2925.00015},
		{"Above one million", 1200000, 254.99995 + 2040 + 3675 + 10000 + 5000.00025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(tt.price)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("Compute(%v) = %v, expected %v", tt.price, result, tt.expected)
			}
		})
	}
}

func TestComputeRoundsToReferenceValue(t *testing.T) {
	if rounded := math.Round(Compute(250000)); rounded != 2245 {
		t.Errorf("round(Compute(250000)) = %v, expected 2245", rounded)
	}
}

func TestComputeContinuousAtBoundaries(t *testing.T) {
	for _, b := range Brackets() {
		if b.Unbounded {
			continue
		}
		below := Compute(b.Limit - 0.01)
		at := Compute(b.Limit)
		above := Compute(b.Limit + 0.01)
		if at-below > 0.01 || above-at > 0.01 {
			t.Errorf("discontinuity at %v: below=%v at=%v above=%v", b.Limit, below, at, above)
		}
	}
}

func TestComputeStrictlyIncreasing(t *testing.T) {
	previous := Compute(0)
	for price := 1000.0; price <= 2000000; price += 1000 {
		current := Compute(price)
		if current <= previous {
			t.Fatalf("Compute(%v) = %v is not greater than previous %v", price, current, previous)
		}
		previous = current
	}
}

func TestBracketsRatesIncrease(t *testing.T) {
	brackets := Brackets()
	if len(brackets) != 5 {
		t.Fatalf("expected 5 brackets, got %d", len(brackets))
	}
	for i := 1; i < len(brackets); i++ {
		if brackets[i].Rate <= brackets[i-1].Rate {
			t.Errorf("bracket %d rate %v does not exceed previous %v", i, brackets[i].Rate, brackets[i-1].Rate)
		}
	}
	if !brackets[len(brackets)-1].Unbounded {
		t.Errorf("expected last bracket to be unbounded")
	}
}

func TestBreakdown(t *testing.T) {
	parts := Breakdown(250000)
	if len(parts) != 2 {
		t.Fatalf("expected 2 bracket portions, got %d", len(parts))
	}
	if math.Abs(parts[0].Taxable-50999.99) > 1e-9 {
		t.Errorf("first portion taxable = %v, expected 50999.99", parts[0].Taxable)
	}
	if math.Abs(parts[1].Taxable-199000.01) > 1e-9 {
		t.Errorf("second portion taxable = %v, expected 199000.01", parts[1].Taxable)
	}

	sum := 0.0
	for _, p := range parts {
		sum += p.Tax
	}
	if math.Abs(sum-Compute(250000)) > 1e-9 {
		t.Errorf("breakdown sum %v does not match Compute %v", sum, Compute(250000))
	}

	if parts := Breakdown(0); len(parts) != 0 {
		t.Errorf("expected no portions for zero price, got %d", len(parts))
	}
}
