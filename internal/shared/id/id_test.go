package id

import (
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerateIsUnique(t *testing.T) {
	gen := NewGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := gen.GenerateString()
		if seen[s] {
			t.Fatalf("duplicate id %s", s)
		}
		seen[s] = true
	}
}

func TestGenerateStringShape(t *testing.T) {
	s := NewGenerator().GenerateString()
	if len(s) != 26 {
		t.Fatalf("ulid length %d, want 26", len(s))
	}
	if !IsValid(s) {
		t.Fatalf("generated id %s not valid", s)
	}
}

func TestTypedIDsCarryTheirPrefix(t *testing.T) {
	cases := map[string]string{
		string(NewWindowID()):  WindowPrefix,
		string(NewSessionID()): SessionPrefix,
		string(NewRequestID()): RequestPrefix,
		string(NewUserID()):    UserPrefix,
		string(NewTermID()):    TermPrefix,
	}

	for s, prefix := range cases {
		if !strings.HasPrefix(s, prefix+"_") {
			t.Errorf("id %s missing prefix %s_", s, prefix)
			continue
		}
		rest := strings.TrimPrefix(s, prefix+"_")
		if !IsValid(rest) {
			t.Errorf("id %s has invalid ulid part %s", s, rest)
		}
	}
}

func TestIsValidRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "invalid", "1234567890", strings.Repeat("z", 27)} {
		if IsValid(s) {
			t.Errorf("%q accepted as valid", s)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := NewGenerator().Generate()

	parsed, err := Parse(original.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.String() != original.String() {
		t.Fatalf("got %s, want %s", parsed.String(), original.String())
	}
}

func TestTimestampMatchesCreation(t *testing.T) {
	before := time.Now().UnixMilli()
	s := NewGenerator().GenerateString()
	after := time.Now().UnixMilli()

	ts, err := Timestamp(s)
	if err != nil {
		t.Fatalf("Timestamp: %v", err)
	}
	if ms := ts.UnixMilli(); ms < before || ms > after {
		t.Fatalf("timestamp %d outside [%d, %d]", ms, before, after)
	}
}

func TestGenerateBatchUnique(t *testing.T) {
	ids := NewGenerator().GenerateBatch(100)
	if len(ids) != 100 {
		t.Fatalf("got %d ids, want 100", len(ids))
	}

	seen := make(map[string]bool, len(ids))
	for _, v := range ids {
		if seen[v.String()] {
			t.Fatalf("duplicate in batch: %s", v)
		}
		seen[v.String()] = true
	}
}

func TestConcurrentGenerationUnique(t *testing.T) {
	gen := NewGenerator()
	const workers, perWorker = 50, 200

	out := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				out <- gen.GenerateString()
			}
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[string]bool)
	for s := range out {
		if seen[s] {
			t.Fatalf("duplicate under concurrency: %s", s)
		}
		seen[s] = true
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("got %d unique ids, want %d", len(seen), workers*perWorker)
	}
}

func TestIDsSortByCreationTime(t *testing.T) {
	gen := NewGenerator()

	ids := make([]string, 5)
	for i := range ids {
		ids[i] = gen.GenerateString()
		time.Sleep(2 * time.Millisecond)
	}

	if !sort.StringsAreSorted(ids) {
		t.Fatalf("ids not k-sortable: %v", ids)
	}
}

func TestDefaultIsSingleton(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default returned distinct generators")
	}
}

func BenchmarkGenerateString(b *testing.B) {
	gen := NewGenerator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.GenerateString()
	}
}

func BenchmarkGenerateParallel(b *testing.B) {
	gen := NewGenerator()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = gen.Generate()
		}
	})
}
