package allowlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/allowlist"
)

func TestParse_TableTests(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
		inList  []int64
		outList []int64
	}{
		{
			name:    "two admins",
			raw:     "123456789,987654321",
			wantLen: 2,
			inList:  []int64{123456789, 987654321},
			outList: []int64{555},
		},
		{
			name:    "spaces and empty segments",
			raw:     " 42 , , 7,",
			wantLen: 2,
			inList:  []int64{42, 7},
		},
		{
			name:    "non-numeric entries are skipped",
			raw:     "abc,42,12x",
			wantLen: 1,
			inList:  []int64{42},
		},
		{
			name:    "empty string",
			raw:     "",
			wantLen: 0,
			outList: []int64{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := allowlist.Parse(tt.raw)

			assert.Equal(t, tt.wantLen, list.Len())
			for _, id := range tt.inList {
				assert.True(t, list.Contains(id), "expected %d in list", id)
			}
			for _, id := range tt.outList {
				assert.False(t, list.Contains(id), "expected %d not in list", id)
			}
		})
	}
}
