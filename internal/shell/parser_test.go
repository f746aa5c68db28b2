package shell

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/storagecalc/internal/footprint"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Command
	}{
		{
			name:     "blank line",
			line:     "   ",
			expected: Command{Kind: KindEmpty},
		},
		{
			name:     "quit is case-insensitive",
			line:     "Q",
			expected: Command{Kind: KindQuit},
		},
		{
			name:     "baseline image",
			line:     "JPG 1000 800",
			expected: Command{Kind: KindCreate, Format: footprint.FormatBaseline, Width: 1000, Height: 800},
		},
		{
			name:     "jpeg2000 image with extra tokens",
			line:     "jpeg2000 10 20 ignored",
			expected: Command{Kind: KindCreate, Format: footprint.FormatJP2, Width: 10, Height: 20},
		},
		{
			name:     "group",
			line:     "G 1 2 2 7",
			expected: Command{Kind: KindGroup, IDs: []int{1, 2, 2, 7}},
		},
		{
			name:     "group with comma separated identifiers",
			line:     "G 3, 4",
			expected: Command{Kind: KindGroup, IDs: []int{3, 4}},
		},
		{
			name:     "group with commas and no spaces",
			line:     "g 1,2,,5",
			expected: Command{Kind: KindGroup, IDs: []int{1, 2, 5}},
		},
		{
			name:     "group keeps identifiers before garbage",
			line:     "g 3 4 x 5",
			expected: Command{Kind: KindGroup, IDs: []int{3, 4}},
		},
		{
			name:     "empty group",
			line:     "g",
			expected: Command{Kind: KindGroup, IDs: []int{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.line, err)
			}
			if !reflect.DeepEqual(cmd, tt.expected) {
				t.Errorf("Expected Parse(%q)=%+v, got %+v", tt.line, tt.expected, cmd)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, line := range []string{
		"png 10 10",
		"bmp 10",
		"bmp ten 10",
		"bmp 10 -5",
		"hello",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected Parse(%q) error=ErrInvalidInput, got %v", line, err)
			}
		})
	}
}
