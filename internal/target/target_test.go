package target

import (
	"errors"
	"testing"

	"github.com/sevigo/reviewgate/internal/core"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantMode core.TargetMode
		wantErr  bool
	}{
		{
			name:     "staged",
			req:      Request{Staged: true},
			wantMode: core.TargetStaged,
		},
		{
			name:     "single commit",
			req:      Request{Commit: "abc1234"},
			wantMode: core.TargetCommit,
		},
		{
			name:     "explicit range",
			req:      Request{Range: "main..feature"},
			wantMode: core.TargetRange,
		},
		{
			name:     "file list",
			req:      Request{Files: []string{"a.go", "b.go"}},
			wantMode: core.TargetFiles,
		},
		{
			name:     "no selector falls back to compare branch range",
			req:      Request{CompareBranch: "develop"},
			wantMode: core.TargetRange,
		},
		{
			name:    "staged plus commit conflicts",
			req:     Request{Staged: true, Commit: "abc1234"},
			wantErr: true,
		},
		{
			name:    "range plus files conflicts",
			req:     Request{Range: "main..HEAD", Files: []string{"a.go"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrConflictingSelectors) {
					t.Errorf("expected ErrConflictingSelectors, got %v", err)
				}
				return
			}
			if got.Mode != tt.wantMode {
				t.Errorf("Mode = %s, want %s", got.Mode, tt.wantMode)
			}
		})
	}
}

func TestResolveDefaultRange(t *testing.T) {
	got, err := Resolve(Request{CompareBranch: "develop"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Range != "develop..HEAD" {
		t.Errorf("Range = %q, want %q", got.Range, "develop..HEAD")
	}

	got, err = Resolve(Request{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Range != "main..HEAD" {
		t.Errorf("Range = %q, want %q", got.Range, "main..HEAD")
	}
}
