package types

import "testing"

func TestParseResourceKind(t *testing.T) {
	tests := []struct {
		input   string
		want    ResourceKind
		wantErr bool
	}{
		{"wind", ResourceWind, false},
		{"pv", ResourcePV, false},
		{"solar", "", true},
		{"WIND", "", true},
		{"", "", true},
		{"hydro", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseResourceKind(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseResourceKind(%q) should have failed", tt.input)
				}
				if CodeOf(err) != ErrCodeValidationResourceKind {
					t.Errorf("CodeOf(err) = %q, want %q", CodeOf(err), ErrCodeValidationResourceKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResourceKind(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseResourceKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResourceKindValid(t *testing.T) {
	if !ResourceWind.Valid() || !ResourcePV.Valid() {
		t.Error("recognized kinds should be valid")
	}
	if ResourceKind("solar").Valid() {
		t.Error("\"solar\" must not be a valid kind")
	}
}

func TestAllWeatherVariablesComplete(t *testing.T) {
	if len(AllWeatherVariables) != 5 {
		t.Fatalf("AllWeatherVariables has %d entries, want 5", len(AllWeatherVariables))
	}
	seen := map[WeatherVariable]bool{}
	for _, v := range AllWeatherVariables {
		if seen[v] {
			t.Errorf("duplicate variable %q", v)
		}
		seen[v] = true
	}
}
