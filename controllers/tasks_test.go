package controllers

import "testing"

func TestValidateAllocation(t *testing.T) {
	agentID := uint(1)
	teamID := uint(2)

	tests := []struct {
		name    string
		agentID *uint
		teamID  *uint
		wantErr bool
	}{
		{"agent only", &agentID, nil, false},
		{"team only", nil, &teamID, false},
		{"neither", nil, nil, true},
		{"both", &agentID, &teamID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAllocation(tt.agentID, tt.teamID)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAllocation() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
