package content

import (
	"reflect"
	"testing"
)

func TestCounterTransitions(t *testing.T) {
	tests := []struct {
		name          string
		prevCat       string
		prevPublished bool
		newCat        string
		newPublished  bool
		want          []counterDelta
	}{
		{"create draft", "", false, "Tech", false, nil},
		{"create published", "", false, "Tech", true,
			[]counterDelta{{"Tech", +1}}},
		{"publish", "Tech", false, "Tech", true,
			[]counterDelta{{"Tech", +1}}},
		{"unpublish", "Tech", true, "Tech", false,
			[]counterDelta{{"Tech", -1}}},
		{"edit while published", "Tech", true, "Tech", true, nil},
		{"edit while draft", "Tech", false, "Tech", false, nil},
		{"move published", "Tech", true, "Life", true,
			[]counterDelta{{"Tech", -1}, {"Life", +1}}},
		{"move draft", "Tech", false, "Life", false, nil},
		{"delete published", "Tech", true, "", false,
			[]counterDelta{{"Tech", -1}}},
		{"delete draft", "Tech", false, "", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := counterTransitions(tt.prevCat, tt.prevPublished, tt.newCat, tt.newPublished)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
