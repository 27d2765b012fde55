package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/CyBerk9z/saixaid-main/storage"
)

func TestSystemPromptRoundTrip(t *testing.T) {
	tenantRepo, sourceRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { sourceRepo.Close(); tenantRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if err := tenantRepo.SetSystemPrompt(ctx, "acme", "You answer about acme's chat logs."); err != nil {
		t.Fatalf("Failed to set system prompt: %v", err)
	}

	prompt, err := tenantRepo.GetSystemPrompt(ctx, "acme")
	if err != nil {
		t.Fatalf("Failed to get system prompt: %v", err)
	}
	if prompt != "You answer about acme's chat logs." {
		t.Fatalf("Unexpected prompt: %q", prompt)
	}
}

func TestSystemPromptNotFound(t *testing.T) {
	tenantRepo, sourceRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { sourceRepo.Close(); tenantRepo.Close(); backend.Close() }()

	_, err = tenantRepo.GetSystemPrompt(context.Background(), "ghost")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSystemPromptOverwrite(t *testing.T) {
	tenantRepo, sourceRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { sourceRepo.Close(); tenantRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if err := tenantRepo.SetSystemPrompt(ctx, "acme", "first"); err != nil {
		t.Fatalf("Failed to set system prompt: %v", err)
	}
	if err := tenantRepo.SetSystemPrompt(ctx, "acme", "second"); err != nil {
		t.Fatalf("Failed to overwrite system prompt: %v", err)
	}

	prompt, err := tenantRepo.GetSystemPrompt(ctx, "acme")
	if err != nil {
		t.Fatalf("Failed to get system prompt: %v", err)
	}
	if prompt != "second" {
		t.Fatalf("Expected overwritten prompt, got %q", prompt)
	}
}

func TestSystemPromptEmptyTenant(t *testing.T) {
	tenantRepo, sourceRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { sourceRepo.Close(); tenantRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if err := tenantRepo.SetSystemPrompt(ctx, "", "prompt"); !errors.Is(err, core.ErrEmptyTenant) {
		t.Fatalf("Expected ErrEmptyTenant on set, got %v", err)
	}
	if _, err := tenantRepo.GetSystemPrompt(ctx, ""); !errors.Is(err, core.ErrEmptyTenant) {
		t.Fatalf("Expected ErrEmptyTenant on get, got %v", err)
	}
}
