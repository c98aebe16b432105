package config

import "testing"

func TestStaticGetOption(t *testing.T) {
	s := Static{"unfold.depth": "3"}
	v, ok := s.GetOption("unfold.depth")
	if !ok || v != "3" {
		t.Fatalf("GetOption(unfold.depth) = (%q,%v), want (3,true)", v, ok)
	}
	if _, ok := s.GetOption("missing"); ok {
		t.Fatal("GetOption on an absent key must report ok=false")
	}
}

func TestEmptyNeverHasOptions(t *testing.T) {
	if _, ok := Empty.GetOption("anything"); ok {
		t.Fatal("Empty must never have an option set")
	}
}
