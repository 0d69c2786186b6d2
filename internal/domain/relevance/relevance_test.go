package relevance

import (
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	q := Parse(`"chapter one" the 3 energy of "work" kinetic`)
	if !slices.Equal(q.Phrases, []string{"chapter one", "work"}) {
		t.Errorf("unexpected phrases %v", q.Phrases)
	}
	if !slices.Equal(q.Words, []string{"3", "energy", "kinetic"}) {
		t.Errorf("unexpected words %v", q.Words)
	}
}

func TestParse_Empty(t *testing.T) {
	if !Parse("a an the").Empty() {
		t.Error("short words must be dropped")
	}
	if Parse("12").Empty() {
		t.Error("numbers of any length must be kept")
	}
}

func TestScore_PhraseBoundedVsUnbounded(t *testing.T) {
	q := Parse(`"chapter one"`)
	if got := q.Score("Chapter One: Intro"); got != 5 {
		t.Errorf("bounded phrase: got %d, want 5", got)
	}
	if got := q.Score("Chapter Ones"); got != 3 {
		t.Errorf("unbounded phrase: got %d, want 3", got)
	}
}

func TestScore_Words(t *testing.T) {
	q := Parse("energy")
	tests := []struct {
		text string
		want int
	}{
		{"Energy", 2},
		{"Kinetic Energy, Potential Energy", 4},
		{"Energetic", 0},
		{"Energyless", 1},
		{`"Energy"`, 2},
		{"energy_level", 1},
		{"", 0},
	}
	for _, tc := range tests {
		if got := q.Score(tc.text); got != tc.want {
			t.Errorf("Score(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	q := Parse(`"newton's laws" motion 4`)
	text := "4 Newton's Laws of Motion / 4.1 Motion"
	first := q.Score(text)
	for i := 0; i < 10; i++ {
		if got := q.Score(text); got != first {
			t.Fatalf("score changed: %d vs %d", got, first)
		}
	}
	// phrase bounded, "motion" twice bounded, "4" twice bounded ("4.1" ends at '.')
	if first != 5+2+2+2+2 {
		t.Errorf("unexpected score %d", first)
	}
}

func TestScore_RegexMetacharacters(t *testing.T) {
	q := Parse(`"(a+b)"`)
	if got := q.Score("expand (a+b) twice"); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
}

func TestRank(t *testing.T) {
	q := Parse(`"chapter one"`)
	cands := []Candidate{
		{ORN: "a", Text: "Chapter Ones"},
		{ORN: "b", Text: "Unrelated"},
		{ORN: "c", Text: "Chapter One: Intro"},
		{ORN: "d", Text: "Chapter Oneself"},
	}
	got := Rank(q, cands, 5)
	if !slices.Equal(ORNs(got), []string{"c", "a", "d"}) {
		t.Errorf("unexpected order %v", ORNs(got))
	}
	if got[0].Score != 5 || got[1].Score != 3 {
		t.Errorf("unexpected scores %+v", got)
	}

	if got := Rank(q, cands, 1); len(got) != 1 || got[0].ORN != "c" {
		t.Errorf("limit not applied: %+v", got)
	}
	if got := Rank(q, cands, 0); len(got) != 0 {
		t.Errorf("expected no results for limit 0, got %d", len(got))
	}
}
