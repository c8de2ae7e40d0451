package main

import (
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "plain words", line: "  page   2 ", want: []string{"page", "2"}},
		{name: "empty line", line: "   ", want: nil},
		{name: "double quoted value", line: `search cltrNm="two words" sido=Seoul`, want: []string{"search", "cltrNm=two words", "sido=Seoul"}},
		{name: "single quoted word", line: `go 'sido=Seoul&numOfRows=20'`, want: []string{"go", "sido=Seoul&numOfRows=20"}},
		{name: "other quote kept inside", line: `search cltrNm="kim's lot"`, want: []string{"search", "cltrNm=kim's lot"}},
		{name: "empty quotes", line: `search cltrNm=""`, want: []string{"search", "cltrNm="}},
		{name: "unterminated quote", line: `search cltrNm="two words`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitArgs() failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
