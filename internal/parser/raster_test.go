package parser

import (
	"reflect"
	"testing"
)

func TestSelectPages(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		want      []int
	}{
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"one page", 1, []int{1}},
		{"three pages", 3, []int{1, 2, 3}},
		{"exactly four", 4, []int{1, 2, 3, 4}},
		{"five pages trimmed", 5, []int{1, 2, 4, 5}},
		{"twelve pages trimmed", 12, []int{1, 2, 11, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectPages(tt.pageCount)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectPages(%d) = %v, want %v", tt.pageCount, got, tt.want)
			}
		})
	}
}

func TestNewRasterizerDefaultDPI(t *testing.T) {
	if rz := NewRasterizer(0); rz.DPI != 150 {
		t.Errorf("expected default DPI 150, got %d", rz.DPI)
	}
	if rz := NewRasterizer(300); rz.DPI != 300 {
		t.Errorf("expected DPI 300, got %d", rz.DPI)
	}
}
