package main

import "testing"

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "22:00-02:00", want: "22:00 - 02:00"},
		{in: "09:30-17:45", want: "09:30 - 17:45"},
		{in: "9:30-17:45", want: "09:30 - 17:45"},
		{in: "22:00", wantErr: true},
		{in: "25:00-02:00", wantErr: true},
		{in: "22:61-02:00", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		rule, err := parseWindow(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseWindow(%q) accepted bad input", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseWindow(%q) failed: %v", tt.in, err)
			continue
		}
		if got := rule.String(); got != tt.want {
			t.Errorf("parseWindow(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
