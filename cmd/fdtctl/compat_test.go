package main

import (
	"testing"
)

func TestCompatCommand(t *testing.T) {
	tests := []struct {
		name           string
		compat         string
		wantContain    []string
		wantNotContain []string
		wantJSON       bool
	}{
		{
			name:        "uart match",
			compat:      "ns16550a",
			wantContain: []string{"/soc/uart@10000000"},
		},
		{
			name:           "root match",
			compat:         "acme,board",
			wantContain:    []string{"/"},
			wantNotContain: []string{"soc"},
		},
		{
			name:        "no match",
			compat:      "acme,nothing",
			wantContain: []string{"No nodes compatible"},
		},
		{
			name:        "match as JSON",
			compat:      "ns16550a",
			wantJSON:    true,
			wantContain: []string{"/soc/uart@10000000", "matches"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON

			output, err := captureOutput(t, func() error {
				return runCompat([]string{writeTestBlob(t), tt.compat})
			})
			if err != nil {
				t.Fatalf("runCompat() error = %v", err)
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}

			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}
