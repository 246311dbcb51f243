package settings

import (
	"context"
	"testing"
)

func TestIntoContext(t *testing.T) {
	tests := []struct {
		name     string
		settings *Run
	}{
		{
			name:     "empty_settings",
			settings: &Run{},
		},
		{
			name: "settings_with_values",
			settings: &Run{
				NoColor:     true,
				Interactive: true,
				Output:      OutputHTML,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			newCtx := IntoContext(ctx, tt.settings)
			if ctx == newCtx {
				t.Error("IntoContext() should return a new context")
			}
			retrieved, ok := newCtx.Value(settingsContextKey).(*Run)
			if !ok {
				t.Fatal("IntoContext() stored value is not *Run")
			}
			if retrieved != tt.settings {
				t.Errorf("IntoContext() stored different settings pointer")
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    func() context.Context
		wantOK bool
		want   *Run
	}{
		{
			name:   "missing",
			ctx:    context.Background,
			wantOK: false,
		},
		{
			name: "present",
			ctx: func() context.Context {
				return IntoContext(context.Background(), &Run{Output: OutputPage, IsQuiet: true})
			},
			wantOK: true,
			want:   &Run{Output: OutputPage, IsQuiet: true},
		},
		{
			name: "wrong_type",
			ctx: func() context.Context {
				return context.WithValue(context.Background(), settingsContextKey, "not settings")
			},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.ctx())
			if ok != tt.wantOK {
				t.Fatalf("FromContext() ok = %v; want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				if got != nil {
					t.Errorf("FromContext() = %+v; want nil", got)
				}
				return
			}
			if *got != *tt.want {
				t.Errorf("FromContext() = %+v; want %+v", *got, *tt.want)
			}
		})
	}
}
