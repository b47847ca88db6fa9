package handler

import (
	"strconv"
	"testing"
)

func TestParseID(t *testing.T) {
	maxID := strconv.FormatUint(uint64(^uint(0)), 10)

	tests := []struct {
		raw    string
		want   uint
		wantOK bool
	}{
		{raw: "1", want: 1, wantOK: true},
		{raw: maxID, want: ^uint(0), wantOK: true},
		{raw: "0", wantOK: false},
		{raw: "-1", wantOK: false},
		{raw: "abc", wantOK: false},
		// 超出当前平台 uint 范围时拒绝而不是截断
		{raw: maxID + "0", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := parseID(tt.raw)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Fatalf("parseID(%q)=(%d,%v) want=(%d,%v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}
