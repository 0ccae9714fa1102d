package gitsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{"https", "https://github.com/example/words.git", filepath.Join("repos", "github.com", "example", "words"), false},
		{"scp-like", "git@github.com:example/words.git", filepath.Join("repos", "github.com", "example", "words"), false},
		{"garbage", "not a url", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalPath("repos", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error for '%s', but got path '%s'", tc.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected path '%s', but got '%s'", tc.expected, got)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("https://github.com/example/words.git") {
		t.Error("Expected https remote to be a URL")
	}
	if !IsURL("git@github.com:example/words.git") {
		t.Error("Expected scp-like remote to be a URL")
	}
	if IsURL("./words") {
		t.Error("Expected a relative path not to be a URL")
	}
}

func TestSyncClonesThenPulls(t *testing.T) {
	upstream := t.TempDir()
	repo, err := git.PlainInit(upstream, false)
	if err != nil {
		t.Fatalf("Failed to init upstream repo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(upstream, "words.txt"), []byte("NL: huis\nEN: house\n"), 0o644); err != nil {
		t.Fatalf("Failed to write word list: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := worktree.Add("words.txt"); err != nil {
		t.Fatalf("Failed to stage word list: %v", err)
	}
	_, err = worktree.Commit("add words", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	checkout := filepath.Join(t.TempDir(), "checkout")
	ctx := context.Background()

	if err := Sync(ctx, upstream, checkout); err != nil {
		t.Fatalf("Expected clone to succeed, but got: %v", err)
	}
	if _, err := os.Stat(filepath.Join(checkout, "words.txt")); err != nil {
		t.Errorf("Expected cloned word list, but got: %v", err)
	}

	if err := Sync(ctx, upstream, checkout); err != nil {
		t.Errorf("Expected pull of an up-to-date checkout to succeed, but got: %v", err)
	}
}
