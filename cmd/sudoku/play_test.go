package main

import "testing"

func TestManualSaveSlot(t *testing.T) {
	cases := []struct {
		name    string
		fields  []string
		want    int
		wantErr bool
	}{
		{"bare s defaults to slot 1", []string{"s"}, 1, false},
		{"explicit slot", []string{"s", "3"}, 3, false},
		{"autosave slot refused", []string{"s", "0"}, 0, true},
		{"negative slot", []string{"s", "-1"}, 0, true},
		{"slot past the last", []string{"s", "4"}, 0, true},
		{"not a number", []string{"s", "x"}, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := manualSaveSlot(tc.fields)
			if (err != nil) != tc.wantErr {
				t.Fatalf("manualSaveSlot(%v) error = %v, want error %v", tc.fields, err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Fatalf("manualSaveSlot(%v) = %d, want %d", tc.fields, got, tc.want)
			}
		})
	}
}
