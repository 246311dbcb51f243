package settings

import (
	"testing"
)

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	want := Run{LogFormat: "json", Output: OutputText}
	if *got != want {
		t.Errorf("NewCliParams() = %+v, want %+v", *got, want)
	}
}

func TestRunFromStdin(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"", true},
		{"-", true},
		{"data.json", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r := &Run{InputPath: tt.path}
			if got := r.FromStdin(); got != tt.want {
				t.Errorf("FromStdin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidOutputs(t *testing.T) {
	want := map[string]bool{OutputText: true, OutputHTML: true, OutputPage: true}
	if len(ValidOutputs) != len(want) {
		t.Fatalf("ValidOutputs = %v", ValidOutputs)
	}
	for _, o := range ValidOutputs {
		if !want[o] {
			t.Errorf("unexpected output %q", o)
		}
	}
}
