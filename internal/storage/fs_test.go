package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key, err := s.Put(ctx, "imports/k1/questions.csv", strings.NewReader("a,b"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "imports/k1/questions.csv" {
		t.Fatalf("key = %q", key)
	}
	rc, err := s.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "a,b" {
		t.Fatalf("content = %q", b)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete twice: %v", err)
	}
}

func TestFSStoreKeepsKeysInsideBase(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key, err := s.Put(context.Background(), "../../etc/evil", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "etc/evil" {
		t.Fatalf("key = %q", key)
	}
	if _, err := s.Put(context.Background(), "..", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for empty key")
	}
}
