package dispatcher

import "testing"

func TestParseExecutionMode(t *testing.T) {
	cases := []struct {
		in      string
		want    ExecutionMode
		wantErr bool
	}{
		{"", ModeInProcess, false},
		{"in_process", ModeInProcess, false},
		{"IN_PROCESS", ModeInProcess, false},
		{"worker", ModeWorker, false},
		{"Worker", ModeWorker, false},
		{"bogus", "", true},
	}
	for _, c := range cases {
		got, err := ParseExecutionMode(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseExecutionMode(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExecutionMode(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseExecutionMode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
