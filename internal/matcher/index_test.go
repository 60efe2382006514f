package matcher

import (
	"testing"

	"esglens/internal/domain"
)

func brand(name string, products ...string) domain.Brand {
	return domain.Brand{ID: name, BrandName: name, Products: products}
}

func TestMatchFirstRegisteredWins(t *testing.T) {
	t.Parallel()

	idx := BuildIndex([]domain.Brand{
		brand("Nike", "Air Max", "Dri-FIT"),
		brand("Tesla", "Model 3"),
	})

	got, ok := idx.Match("Buy the new Model 3 today")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.BrandName != "Tesla" {
		t.Fatalf("expected Tesla, got %s", got.BrandName)
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	t.Parallel()

	idx := BuildIndex([]domain.Brand{brand("Nike", "Air Max")})

	if _, ok := idx.Match("NIKE AIR MAX 90 sale"); !ok {
		t.Fatal("expected case-insensitive substring match")
	}
}

func TestMatchOverlappingPatterns(t *testing.T) {
	t.Parallel()

	// "air max" registers before "air max 90"; the earlier, less specific
	// pattern wins even when the text contains both.
	idx := BuildIndex([]domain.Brand{
		brand("Nike", "Air Max"),
		brand("Rival", "Air Max 90"),
	})

	got, ok := idx.Match("the air max 90 is back")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.BrandName != "Nike" {
		t.Fatalf("expected first-registered brand, got %s", got.BrandName)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	t.Parallel()

	idx := BuildIndex(nil)
	if _, ok := idx.Match("anything"); ok {
		t.Fatal("empty index must not match")
	}

	idx = BuildIndex([]domain.Brand{brand("Nike", "Air Max")})
	if _, ok := idx.Match(""); ok {
		t.Fatal("empty text must not match")
	}
}

func TestMatchDeterministic(t *testing.T) {
	t.Parallel()

	idx := BuildIndex([]domain.Brand{
		brand("Nike", "Air Max", "React"),
		brand("Apple", "iPhone", "AirPods"),
	})

	first, ok := idx.Match("new airpods pro and react shoes")
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 10; i++ {
		again, ok := idx.Match("new airpods pro and react shoes")
		if !ok || again.BrandName != first.BrandName {
			t.Fatalf("match is not deterministic: %s vs %s", first.BrandName, again.BrandName)
		}
	}
}

func TestRegisterKeepsFirstClaim(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	idx.Register(brand("Nike", "Classic"))
	idx.Register(brand("Adidas", "Classic"))

	got, ok := idx.Match("the classic returns")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.BrandName != "Nike" {
		t.Fatalf("collision must keep first claim, got %s", got.BrandName)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected 1 pattern, got %d", idx.Len())
	}
}

func TestRegisterSkipsMalformedBrands(t *testing.T) {
	t.Parallel()

	idx := BuildIndex([]domain.Brand{
		{ID: "1", BrandName: "", Products: []string{"Ghost"}},
		{ID: "2", BrandName: "Empty"},
		{ID: "3", BrandName: "Blank", Products: []string{"  ", ""}},
		brand("Nike", "Air Max"),
	})

	if idx.Len() != 1 {
		t.Fatalf("expected only the well-formed brand indexed, got %d patterns", idx.Len())
	}
	if _, ok := idx.Match("ghost product"); ok {
		t.Fatal("nameless brand must not be indexed")
	}
}

func TestPatternsPreserveInsertionOrder(t *testing.T) {
	t.Parallel()

	idx := BuildIndex([]domain.Brand{
		brand("Nike", "Air Max", "Dri-FIT"),
		brand("Tesla", "Model 3"),
	})

	got := idx.Patterns()
	want := []PatternEntry{
		{Pattern: "air max", BrandKey: "nike"},
		{Pattern: "dri-fit", BrandKey: "nike"},
		{Pattern: "model 3", BrandKey: "tesla"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
