package stoplist

import "testing"

func TestSetContainsCaseInsensitive(t *testing.T) {
	s := New([]string{"De", "HET", "en"})

	for _, w := range []string{"de", "De", "DE", "het", "en"} {
		if !s.Contains(w) {
			t.Errorf("Contains(%q) = false, want true", w)
		}
	}
	if s.Contains("pijn") {
		t.Error("Contains(\"pijn\") = true, want false")
	}
}

func TestSetIgnoresEmptyAndDuplicates(t *testing.T) {
	s := New([]string{"de", "de", "  ", "", "het", " het "})

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestSetTermsSorted(t *testing.T) {
	s := New([]string{"van", "de", "het"})

	terms := s.Terms()
	want := []string{"de", "het", "van"}
	if len(terms) != len(want) {
		t.Fatalf("Terms() = %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("Terms()[%d] = %q, want %q", i, terms[i], want[i])
		}
	}
}

func TestDutchDefaults(t *testing.T) {
	s := Dutch()

	if s.Len() == 0 {
		t.Fatal("Dutch() returned empty set")
	}
	for _, w := range []string{"de", "het", "een", "niet"} {
		if !s.Contains(w) {
			t.Errorf("Dutch set should contain %q", w)
		}
	}
}
