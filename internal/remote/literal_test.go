// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package remote

import (
	"reflect"
	"testing"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "plain", input: "12", want: 12},
		{name: "trailing newline", input: "7\n", want: 7},
		{name: "zero", input: "0", want: 0},
		{name: "not a number", input: "['a']", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStringList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:  "single quoted",
			input: "['default', 'sales_db']",
			want:  []string{"default", "sales_db"},
		},
		{
			name:  "double quoted",
			input: `["a", "b", "c"]`,
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "empty list",
			input: "[]",
			want:  nil,
		},
		{
			name:  "trailing newline from print",
			input: "['events']\n",
			want:  []string{"events"},
		},
		{
			name:  "escaped quote inside element",
			input: `['it\'s_a_table']`,
			want:  []string{"it's_a_table"},
		},
		{
			name:  "single element no space",
			input: "['x','y']",
			want:  []string{"x", "y"},
		},
		{name: "not a list", input: "42", wantErr: true},
		{name: "unterminated", input: "['a", wantErr: true},
		{name: "unquoted element", input: "[a, b]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStringList(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseStringList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
