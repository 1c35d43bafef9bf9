package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecklistProgress(t *testing.T) {
	tests := []struct {
		name         string
		items        []TodoItem
		wantDone     int
		wantTotal    int
		wantProgress int
		wantStatus   string
	}{
		{
			name:       "empty checklist is pending",
			items:      nil,
			wantStatus: StatusPending,
		},
		{
			name: "nothing completed",
			items: []TodoItem{
				{Text: "a"},
				{Text: "b"},
			},
			wantTotal:  2,
			wantStatus: StatusPending,
		},
		{
			name: "two of three completed rounds to 67",
			items: []TodoItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: true},
				{Text: "c"},
			},
			wantDone:     2,
			wantTotal:    3,
			wantProgress: 67,
			wantStatus:   StatusInProgress,
		},
		{
			name: "one of three rounds to 33",
			items: []TodoItem{
				{Text: "a", Completed: true},
				{Text: "b"},
				{Text: "c"},
			},
			wantDone:     1,
			wantTotal:    3,
			wantProgress: 33,
			wantStatus:   StatusInProgress,
		},
		{
			name: "half rounds up",
			items: []TodoItem{
				{Text: "a", Completed: true},
				{Text: "b"},
				{Text: "c"},
				{Text: "d"},
				{Text: "e"},
				{Text: "f"},
				{Text: "g"},
				{Text: "h"},
			},
			wantDone:     1,
			wantTotal:    8,
			wantProgress: 13,
			wantStatus:   StatusInProgress,
		},
		{
			name: "single completed item is completed",
			items: []TodoItem{
				{Text: "a", Completed: true},
			},
			wantDone:     1,
			wantTotal:    1,
			wantProgress: 100,
			wantStatus:   StatusCompleted,
		},
		{
			name: "all completed is completed",
			items: []TodoItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: true},
				{Text: "c", Completed: true},
			},
			wantDone:     3,
			wantTotal:    3,
			wantProgress: 100,
			wantStatus:   StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done, total, progress, status := ChecklistProgress(tt.items)
			assert.Equal(t, tt.wantDone, done)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantProgress, progress)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
