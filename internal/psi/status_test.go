package psi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/singaporepsi/psimap/internal/psi"
)

func TestNewStatus(t *testing.T) {
	healthy := "healthy"
	degraded := "degraded"

	tests := []struct {
		name     string
		snapshot *psi.Snapshot
		want     psi.Status
	}{
		{
			name:     "healthy",
			snapshot: &psi.Snapshot{Status: &healthy},
			want:     psi.Status{Value: "healthy", Healthy: true, Text: "App Status:- healthy"},
		},
		{
			name:     "other value",
			snapshot: &psi.Snapshot{Status: &degraded},
			want:     psi.Status{Value: "degraded", Healthy: false, Text: "App Status:- degraded"},
		},
		{
			name:     "absent",
			snapshot: &psi.Snapshot{},
			want:     psi.Status{Text: "App Status:- "},
		},
		{
			name: "nil snapshot",
			want: psi.Status{Text: "App Status:- "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, psi.NewStatus(tt.snapshot))
		})
	}
}
