package provider

import (
	"context"
	"fmt"
	"testing"

	"github.com/kbukum/transcribe-mcp/errors"
)

type testProvider struct {
	name      string
	available bool
}

func (p *testProvider) Name() string                       { return p.name }
func (p *testProvider) IsAvailable(_ context.Context) bool { return p.available }

func TestRegistryCreateCachesInstance(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("assemblyai", func(cfg map[string]any) (*testProvider, error) {
		return &testProvider{name: fmt.Sprint(cfg["name"]), available: true}, nil
	})

	p, err := reg.Create("assemblyai", map[string]any{"name": "cloud"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name() != "cloud" {
		t.Errorf("expected name 'cloud', got %q", p.Name())
	}
	got, ok := reg.Get("assemblyai")
	if !ok || got != p {
		t.Error("expected created instance to be cached")
	}
}

func TestRegistryCreateUnregistered(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	_, err := reg.Create("missing", nil)
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRegistryCreateFactoryError(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("bad", func(map[string]any) (*testProvider, error) {
		return nil, errors.MissingField("api_key")
	})
	if _, err := reg.Create("bad", nil); err == nil {
		t.Fatal("expected factory error")
	}
	if _, ok := reg.Get("bad"); ok {
		t.Error("failed instance must not be cached")
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	for _, n := range []string{"beta", "alpha"} {
		name := n
		reg.RegisterFactory(name, func(map[string]any) (*testProvider, error) {
			return &testProvider{name: name}, nil
		})
	}
	names := reg.List()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("expected sorted [alpha beta], got %v", names)
	}
}
