package utils

import "testing"

func TestIsValidMobileNumber(t *testing.T) {
	tests := []struct {
		name   string
		mobile string
		want   bool
	}{
		{"valid starting with 9", "9846012345", true},
		{"valid starting with 6", "6000000000", true},
		{"starts with 5", "5846012345", false},
		{"too short", "984601234", false},
		{"too long", "98460123456", false},
		{"letters", "98460a2345", false},
		{"with country code", "+919846012345", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidMobileNumber(tt.mobile); got != tt.want {
				t.Errorf("IsValidMobileNumber(%q) = %v, want %v", tt.mobile, got, tt.want)
			}
		})
	}
}

func TestParentRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"supervisor", "coordinator"},
		{"group_leader", "supervisor"},
		{"pro", "group_leader"},
		{"coordinator", ""},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := ParentRole(tt.role); got != tt.want {
				t.Errorf("ParentRole(%q) = %q, want %q", tt.role, got, tt.want)
			}
		})
	}
}

func TestDisplayRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"coordinator", "Coordinator"},
		{"supervisor", "Supervisor"},
		{"group_leader", "Group Leader"},
		{"pro", "P.R.O"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := DisplayRole(tt.role); got != tt.want {
				t.Errorf("DisplayRole(%q) = %q, want %q", tt.role, got, tt.want)
			}
		})
	}
}

func TestRoleFromDisplayRoundTrip(t *testing.T) {
	for _, role := range []string{"coordinator", "supervisor", "group_leader", "pro"} {
		if got := RoleFromDisplay(DisplayRole(role)); got != role {
			t.Errorf("RoleFromDisplay(DisplayRole(%q)) = %q", role, got)
		}
	}
	if got := RoleFromDisplay("President"); got != "" {
		t.Errorf("RoleFromDisplay(unknown) = %q, want empty", got)
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := CheckPassword("secret123", hash); err != nil {
		t.Errorf("CheckPassword() with correct password: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Error("CheckPassword() accepted wrong password")
	}
}
