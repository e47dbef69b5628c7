package model

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestAdminSummaryHidesHash(t *testing.T) {
	a := &Admin{ID: 4, Name: "Rina", Email: "rina@kampus.ac.id", PasswordHash: "secret"}
	s := a.Summary()
	if s.ID != 4 || s.Name != "Rina" || s.Email != "rina@kampus.ac.id" {
		t.Errorf("unexpected summary: %+v", s)
	}
}
