package workspace

import (
	"testing"

	"gitlite/internal/model"
)

func branches(names ...string) []model.Branch {
	out := make([]model.Branch, len(names))
	for i, n := range names {
		out[i] = model.Branch{Name: n, IsDefault: n == "main"}
	}
	return out
}

func TestBranchSelector_Resolve(t *testing.T) {
	tests := []struct {
		name         string
		requested    string
		list         []model.Branch
		want         string
		wantFellBack bool
	}{
		{"present", "feature", branches("main", "feature"), "feature", false},
		{"missing falls back to default", "ghost", branches("feature", "main"), "main", true},
		{"no default falls back to first", "ghost", branches("b", "a"), "b", true},
		{"empty list keeps request", "ghost", nil, "ghost", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s BranchSelector
			got, fellBack := s.Resolve("repo", tt.requested, tt.list)
			if got != tt.want || fellBack != tt.wantFellBack {
				t.Errorf("Resolve() = %q, %v; want %q, %v", got, fellBack, tt.want, tt.wantFellBack)
			}
		})
	}
}

func TestBranchSelector_FallbackOncePerObservation(t *testing.T) {
	var s BranchSelector
	list := branches("main", "feature")

	if got, fellBack := s.Resolve("repo", "ghost", list); got != "main" || !fellBack {
		t.Fatalf("first Resolve() = %q, %v; want main, true", got, fellBack)
	}
	for i := 0; i < 3; i++ {
		if got, fellBack := s.Resolve("repo", "ghost", list); got != "main" || fellBack {
			t.Fatalf("repeated Resolve() = %q, %v; want main, false", got, fellBack)
		}
	}

	// Settling on a present branch clears the stale name.
	if got, fellBack := s.Resolve("repo", "main", list); got != "main" || fellBack {
		t.Fatalf("Resolve(main) = %q, %v", got, fellBack)
	}
	if got, fellBack := s.Resolve("repo", "ghost", list); got != "main" || !fellBack {
		t.Errorf("Resolve() after a new observation = %q, %v; want main, true", got, fellBack)
	}
}

func TestBranchSelector_RepositoryChange(t *testing.T) {
	var s BranchSelector

	if got, _ := s.Resolve("repo-a", "gone", branches("main")); got != "main" {
		t.Fatalf("Resolve(repo-a) = %q, want main", got)
	}
	got, fellBack := s.Resolve("repo-b", "gone", branches("trunk", "dev"))
	if got != "trunk" || !fellBack {
		t.Errorf("Resolve(repo-b) = %q, %v; want trunk, true", got, fellBack)
	}

	s.Reset()
	if got, fellBack := s.Resolve("repo-b", "gone", branches("trunk", "dev")); got != "trunk" || !fellBack {
		t.Errorf("Resolve() after Reset = %q, %v; want trunk, true", got, fellBack)
	}
}
