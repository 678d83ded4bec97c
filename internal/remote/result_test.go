// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package remote

import (
	"encoding/json"
	"testing"
)

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Result
	}{
		{
			name: "text result",
			raw:  `{"resultType":"text","data":"CREATE TABLE t (id INT)"}`,
			want: Result{Type: ResultText, Text: "CREATE TABLE t (id INT)"},
		},
		{
			name: "error result",
			raw:  `{"resultType":"error","summary":"AccessDenied","cause":"missing glue permissions"}`,
			want: Result{Type: ResultError, Summary: "AccessDenied", Cause: "missing glue permissions"},
		},
		{
			name: "table result is other",
			raw:  `{"resultType":"table","data":[[1,2]]}`,
			want: Result{Type: ResultOther},
		},
		{
			name: "text tag with non-string data is other",
			raw:  `{"resultType":"text","data":[1,2]}`,
			want: Result{Type: ResultOther},
		},
		{
			name: "empty payload is other",
			raw:  ``,
			want: Result{Type: ResultOther},
		},
		{
			name: "malformed json is other",
			raw:  `{not json`,
			want: Result{Type: ResultOther},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeResult(json.RawMessage(tt.raw))
			if got.Type != tt.want.Type || got.Text != tt.want.Text ||
				got.Summary != tt.want.Summary || got.Cause != tt.want.Cause {
				t.Errorf("DecodeResult() = %+v, want %+v", got, tt.want)
			}
			if string(got.Raw) != tt.raw {
				t.Errorf("raw payload not retained: %q", got.Raw)
			}
		})
	}
}
