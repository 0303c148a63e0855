package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/richinex/tubegate/auth"
)

type namedTool struct {
	name    string
	aliases []string
}

func (n namedTool) Metadata() ToolMetadata {
	return ToolMetadata{Name: n.name, Description: n.name + " tool", Aliases: n.aliases}
}
func (namedTool) Validate(Input) error { return nil }
func (namedTool) Execute(context.Context, auth.Context, Input) (any, error) {
	return struct{}{}, nil
}

func TestRegistryAliases(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(namedTool{name: "search", aliases: []string{"youtube.search"}}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, name := range []string{"search", "youtube.search"} {
		tool, ok := reg.Get(name)
		if !ok || tool.Metadata().Name != "search" {
			t.Errorf("Get(%q) = %v, %v", name, tool, ok)
		}
	}
	if reg.Has("youtube.like") {
		t.Error("unexpected tool youtube.like")
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "search" {
		t.Errorf("Names() = %v, aliases should not be listed", names)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(namedTool{name: "search", aliases: []string{"find"}}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []namedTool{
		{name: "search"},
		{name: "find"},
		{name: "other", aliases: []string{"search"}},
		{name: "other2", aliases: []string{"find"}},
		{name: ""},
	}
	for _, tt := range tests {
		if err := reg.Register(tt); err == nil {
			t.Errorf("Register(%+v) should fail", tt)
		}
	}
	if reg.Has("other") || reg.Has("other2") {
		t.Error("failed registration must not leave partial entries")
	}
}

func TestWithDefaults(t *testing.T) {
	if _, err := WithDefaults(Deps{}); err == nil {
		t.Error("expected error without upstream")
	}

	reg, err := WithDefaults(Deps{Upstream: newStubUpstream()})
	if err != nil {
		t.Fatalf("WithDefaults: %v", err)
	}
	want := []string{"activitySummary", "likeVideo", "naturalSearch", "search", "trending"}
	if got := strings.Join(reg.Names(), ","); got != strings.Join(want, ",") {
		t.Errorf("Names() = %s", got)
	}

	desc := reg.Description()
	for _, s := range []string{"Tool: likeVideo", "videoId (string)", "[required]", "Aliases: youtube.getActivitySummary"} {
		if !strings.Contains(desc, s) {
			t.Errorf("Description() missing %q", s)
		}
	}
	if list := reg.List(); len(list) != 5 || list[0].Name != "activitySummary" {
		t.Errorf("List() not sorted: %v", list)
	}
}

func TestInputInt(t *testing.T) {
	tests := []struct {
		in          Input
		wantN       int
		wantPresent bool
		wantErr     bool
	}{
		{in: Input{}, wantPresent: false},
		{in: Input{"n": nil}, wantPresent: false},
		{in: Input{"n": float64(3)}, wantN: 3, wantPresent: true},
		{in: Input{"n": " 8 "}, wantN: 8, wantPresent: true},
		{in: Input{"n": 1e12}, wantN: 2147483647, wantPresent: true},
		{in: Input{"n": 1.5}, wantPresent: true, wantErr: true},
		{in: Input{"n": true}, wantPresent: true, wantErr: true},
		{in: Input{"n": "x"}, wantPresent: true, wantErr: true},
	}
	for _, tt := range tests {
		n, present, err := tt.in.Int("n")
		if (err != nil) != tt.wantErr || present != tt.wantPresent || (!tt.wantErr && n != tt.wantN) {
			t.Errorf("Int(%v) = %d, %v, %v", tt.in, n, present, err)
		}
	}
}
