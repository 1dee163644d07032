package question

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbered(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{ID: int64(i + 1)}
	}
	return qs
}

func TestPaginateWindows(t *testing.T) {
	items := numbered(25)

	cases := []struct {
		name      string
		page      int
		wantFirst int64
		wantLen   int
	}{
		{"first page", 1, 1, 10},
		{"second page", 2, 11, 10},
		{"partial last page", 3, 21, 5},
		{"beyond range", 4, 0, 0},
		{"far beyond range", math.MaxInt, 0, 0},
		{"zero", 0, 0, 0},
		{"negative", -3, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(items, tc.page)
			assert.NotNil(t, got)
			assert.Len(t, got, tc.wantLen)
			if tc.wantLen > 0 {
				assert.Equal(t, tc.wantFirst, got[0].ID)
			}
		})
	}
}

func TestPaginateReconstructsInput(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 20, 37, 100} {
		items := numbered(n)
		pages := (n + QuestionsPerPage - 1) / QuestionsPerPage

		var joined []Question
		for p := 1; p <= pages; p++ {
			page := Paginate(items, p)
			assert.LessOrEqual(t, len(page), QuestionsPerPage)
			joined = append(joined, page...)
		}
		if n == 0 {
			assert.Empty(t, joined)
			continue
		}
		assert.Equal(t, items, joined, "n=%d", n)
	}
}

func TestPaginateEmptyInput(t *testing.T) {
	assert.Empty(t, Paginate(nil, 1))
}
