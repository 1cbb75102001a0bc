package controllers

import (
	"testing"

	"panchayath_go/models"
)

func agentWithRole(role string) *models.Agent {
	return &models.Agent{Name: "X", Role: role, PanchayathID: 1}
}

func TestValidateSuperior(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		superior *models.Agent
		wantErr  bool
	}{
		{name: "supervisor under coordinator", role: "supervisor", superior: agentWithRole("coordinator")},
		{name: "group leader under supervisor", role: "group_leader", superior: agentWithRole("supervisor")},
		{name: "pro under group leader", role: "pro", superior: agentWithRole("group_leader")},
		{name: "no superior is always fine", role: "pro", superior: nil},
		{name: "coordinator with no superior", role: "coordinator", superior: nil},
		{name: "supervisor under supervisor", role: "supervisor", superior: agentWithRole("supervisor"), wantErr: true},
		{name: "pro under coordinator", role: "pro", superior: agentWithRole("coordinator"), wantErr: true},
		{name: "coordinator cannot have superior", role: "coordinator", superior: agentWithRole("coordinator"), wantErr: true},
		{name: "group leader under pro", role: "group_leader", superior: agentWithRole("pro"), wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := validateSuperior(tc.role, tc.superior)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
