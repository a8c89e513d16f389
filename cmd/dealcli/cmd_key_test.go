package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestKeygenAndKeyaddr(t *testing.T) {
	path, addr := newKeyFile(t)

	var out bytes.Buffer
	if err := cmdKeyaddr(nil, &out, []string{"-key", path}); err != nil {
		t.Fatalf("cannot read address: %s", err)
	}
	if got := strings.TrimSpace(out.String()); got != addr.String() {
		t.Fatalf("want %s, got %s", addr, got)
	}

	// an existing key is never overwritten
	if err := cmdKeygen(nil, &out, []string{"-key", path}); err == nil {
		t.Fatal("keygen overwrote an existing key")
	}
}

func TestKeyaddrInvalidKey(t *testing.T) {
	path := mustCreateFile(t, []byte("too short"))
	if err := cmdKeyaddr(nil, &bytes.Buffer{}, []string{"-key", path}); err == nil {
		t.Fatal("want invalid key error")
	}
}
