package errors

import "testing"

func TestValidatePanelID(t *testing.T) {
	valid := []string{"a", "map-1", "before_flood", "Panel2"}
	for _, id := range valid {
		if err := ValidatePanelID(id); err != nil {
			t.Errorf("ValidatePanelID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{"", "1map", "-leading", "has space", "a/b", "é"}
	for _, id := range invalid {
		if err := ValidatePanelID(id); err == nil {
			t.Errorf("ValidatePanelID(%q) should fail", id)
		}
	}

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidatePanelID(string(long)); err == nil {
		t.Error("over-long panel id should fail")
	}
}

func TestValidateTileURL(t *testing.T) {
	valid := []string{
		"https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		"http://tiles.local/{z}/{x}/{y}.png",
	}
	for _, u := range valid {
		if err := ValidateTileURL(u); err != nil {
			t.Errorf("ValidateTileURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{"", "ftp://tiles/{z}", "javascript:alert(1)", "https://x\n.example"}
	for _, u := range invalid {
		if err := ValidateTileURL(u); err == nil {
			t.Errorf("ValidateTileURL(%q) should fail", u)
		}
	}
}

func TestValidateCoords(t *testing.T) {
	if err := ValidateCoords([]float64{51.5, -0.09}); err != nil {
		t.Errorf("valid coords rejected: %v", err)
	}

	invalid := [][]float64{
		{},
		{51.5},
		{51.5, -0.09, 3},
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
	}
	for _, c := range invalid {
		if err := ValidateCoords(c); err == nil {
			t.Errorf("ValidateCoords(%v) should fail", c)
		}
	}
}
