package gallager

import (
	"context"
	"strconv"
	"testing"

	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/tanner"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		m, wc, wr int
	}{
		{6, 3, 4},
		{12, 3, 6},
		{16, 4, 8},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			code, err := Search(context.Background(), test.m, test.wc, test.wr, 4, 100, 1)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			if code.TG != nil {
				t.Fatalf("expected no generator")
			}

			rows, cols := code.H.Dims()
			if rows != test.m || cols != test.m/test.wc*test.wr {
				t.Fatalf("expected (%v,%v) but found (%v,%v)", test.m, test.m/test.wc*test.wr, rows, cols)
			}
			for r := 0; r < rows; r++ {
				if w := code.H.Row(r).HammingWeight(); w != test.wr {
					t.Fatalf("expected row weight %v but found %v", test.wr, w)
				}
			}
			for c := 0; c < cols; c++ {
				if w := code.H.Column(c).HammingWeight(); w != test.wc {
					t.Fatalf("expected column weight %v but found %v", test.wc, w)
				}
			}

			g, err := tanner.New(code.H)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			if g.Layout() != tanner.Regular {
				t.Fatalf("expected %v but found %v", tanner.Regular, g.Layout())
			}
		})
	}
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		m, wc, wr, smallest, maxIter int
	}{
		{6, 2, 4, 4, 10},
		{6, 3, 3, 4, 10},
		{7, 3, 4, 4, 10},
		{6, 3, 4, 5, 10},
		{6, 3, 4, 2, 10},
		{6, 3, 4, 4, 0},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			_, err := Search(context.Background(), test.m, test.wc, test.wr, test.smallest, test.maxIter, 1)
			if err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
