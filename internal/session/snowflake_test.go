package session

import (
	"testing"
	"time"
)

func TestNewGeneratorWorkerBounds(t *testing.T) {
	if _, err := NewGenerator(0); err != nil {
		t.Error(err)
	}
	if _, err := NewGenerator(maxWorkerValue); err != nil {
		t.Error(err)
	}
	if _, err := NewGenerator(maxWorkerValue + 1); err == nil {
		t.Error("expected error for worker ID above the maximum")
	}
	if _, err := NewGenerator(-1); err == nil {
		t.Error("expected error for negative worker ID")
	}
}

func TestGenerateUnique(t *testing.T) {
	gen, err := NewGenerator(1)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int64]struct{})
	for i := 0; i < 4000; i++ {
		id, err := gen.Generate()
		if err != nil {
			t.Fatal(err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestTimestampExtraction(t *testing.T) {
	gen, err := NewGenerator(0)
	if err != nil {
		t.Fatal(err)
	}

	before := time.Now().Add(-time.Second)
	id, err := gen.Generate()
	if err != nil {
		t.Fatal(err)
	}
	after := time.Now().Add(time.Second)

	ts := Timestamp(id)
	if ts.Before(before) || ts.After(after) {
		t.Errorf("extracted timestamp %v outside [%v, %v]", ts, before, after)
	}
}
