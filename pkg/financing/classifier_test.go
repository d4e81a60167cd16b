package financing

import "testing"

func TestDefaultCoverageRatio(t *testing.T) {
	tests := []struct {
		name     string
		program  Type
		units    int
		expected float64
	}{
		{"Conventional", Conventional, 4, 1.15},
		{"Private", Private, 12, 1.15},
		{"CMHC small building", CMHC, 6, 1.1},
		{"CMHC seven units", CMHC, 7, 1.3},
		{"CMHC large building", CMHC, 24, 1.3},
		{"CMHC APH small", CMHCAPH, 2, 1.1},
		{"CMHC APH large", CMHCAPH, 40, 1.1},
		{"Unsupported program", Type("credit_union"), 4, 1.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := DefaultCoverageRatio(tt.program, tt.units); result != tt.expected {
				t.Errorf("DefaultCoverageRatio(%s, %d) = %v, expected %v", tt.program, tt.units, result, tt.expected)
			}
		})
	}
}

func TestCoverageRatioIndependentOfPrice(t *testing.T) {
	// The classifier has no price input; the same program and size must map
	// to the same ratio every time.
	first := DefaultCoverageRatio(CMHC, 8)
	for i := 0; i < 3; i++ {
		if DefaultCoverageRatio(CMHC, 8) != first {
			t.Fatalf("coverage ratio is not stable")
		}
	}
}

func TestAnalysisFee(t *testing.T) {
	tests := []struct {
		name     string
		program  Type
		units    int
		expected float64
		applies  bool
	}{
		{"CMHC", CMHC, 4, 600, true},
		{"CMHC APH", CMHCAPH, 10, 1500, true},
		{"CMHC zero units", CMHC, 0, 0, false},
		{"Conventional", Conventional, 4, 0, false},
		{"Private", Private, 4, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, applies := AnalysisFee(tt.program, tt.units)
			if fee != tt.expected || applies != tt.applies {
				t.Errorf("AnalysisFee(%s, %d) = (%v, %v), expected (%v, %v)",
					tt.program, tt.units, fee, applies, tt.expected, tt.applies)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
		known    bool
	}{
		{"conventional", Conventional, true},
		{" CMHC ", CMHC, true},
		{"cmhc_aph", CMHCAPH, true},
		{"private", Private, true},
		{"", Conventional, false},
		{"seller", Conventional, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, known := ParseType(tt.input)
			if result != tt.expected || known != tt.known {
				t.Errorf("ParseType(%q) = (%s, %v), expected (%s, %v)", tt.input, result, known, tt.expected, tt.known)
			}
		})
	}
}
