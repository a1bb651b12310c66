package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_NewerThan(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		s    Snapshot
		o    Snapshot
		want bool
	}{
		{
			name: "higher version wins",
			s:    Snapshot{ID: "sub-1", Version: 5, UpdatedAt: base},
			o:    Snapshot{ID: "sub-1", Version: 3, UpdatedAt: base.Add(time.Hour)},
			want: true,
		},
		{
			name: "lower version loses regardless of timestamp",
			s:    Snapshot{ID: "sub-1", Version: 3, UpdatedAt: base.Add(time.Hour)},
			o:    Snapshot{ID: "sub-1", Version: 5, UpdatedAt: base},
			want: false,
		},
		{
			name: "equal version falls back to timestamp",
			s:    Snapshot{ID: "sub-1", Version: 4, UpdatedAt: base.Add(time.Minute)},
			o:    Snapshot{ID: "sub-1", Version: 4, UpdatedAt: base},
			want: true,
		},
		{
			name: "identical snapshot is not newer",
			s:    Snapshot{ID: "sub-1", Version: 4, UpdatedAt: base},
			o:    Snapshot{ID: "sub-1", Version: 4, UpdatedAt: base},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.NewerThan(tt.o))
		})
	}
}
