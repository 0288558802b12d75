package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	for p := 0; p < CompleteProgress; p++ {
		assert.Equal(t, StatusIncomplete, StatusFor(p), "progress %d", p)
	}
	assert.Equal(t, StatusComplete, StatusFor(100))
}

func TestToView(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	v := ToView(Task{ID: "1", Name: "Buy milk", Description: "2%", Progress: 100}, now)

	assert.Equal(t, ViewTask{
		ID:          "1",
		Title:       "Buy milk",
		Status:      StatusComplete,
		Time:        now,
		Description: "2%",
		Progress:    100,
	}, v)
	assert.Equal(t, Task{ID: "1", Name: "Buy milk", Description: "2%", Progress: 100}, v.Task())
}

func TestFilterPartition(t *testing.T) {
	now := time.Now()
	var views []ViewTask
	for _, p := range []int{0, 10, 50, 99, 100, 100, 0} {
		views = append(views, ToView(Task{Progress: p}, now))
	}

	var all, complete, incomplete int
	for _, v := range views {
		if FilterAll.Matches(v) {
			all++
		}
		inComplete := FilterComplete.Matches(v)
		inIncomplete := FilterIncomplete.Matches(v)
		assert.NotEqual(t, inComplete, inIncomplete, "task must land in exactly one partition")
		if inComplete {
			complete++
		} else {
			incomplete++
		}
	}

	assert.Equal(t, len(views), all)
	assert.Equal(t, 2, complete)
	assert.Equal(t, 5, incomplete)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"all", FilterAll, false},
		{"complete", FilterComplete, false},
		{"incomplete", FilterIncomplete, false},
		{"", FilterAll, false},
		{"done", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterNext(t *testing.T) {
	assert.Equal(t, FilterComplete, FilterAll.Next())
	assert.Equal(t, FilterIncomplete, FilterComplete.Next())
	assert.Equal(t, FilterAll, FilterIncomplete.Next())
	assert.Equal(t, FilterAll, Filter("bogus").Next())
}
