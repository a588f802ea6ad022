package service

import (
	"fmt"
	"math/rand"
	"testing"

	"trilha-futuro/internal/domain"
)

func answersOf(values ...string) map[string]string {
	out := make(map[string]string, len(values))
	for i, v := range values {
		out[fmt.Sprintf("q%d", i+1)] = v
	}
	return out
}

func TestScoreAndClassify_Examples(t *testing.T) {
	tests := []struct {
		name        string
		answers     map[string]string
		wantTally   domain.ScoreTally
		wantProfile domain.ProfileKey
		wantMax     int
	}{
		{
			name:        "empty answer set",
			answers:     map[string]string{},
			wantTally:   domain.ScoreTally{},
			wantProfile: domain.ProfileExatas,
			wantMax:     0,
		},
		{
			name:        "nil answer set",
			answers:     nil,
			wantTally:   domain.ScoreTally{},
			wantProfile: domain.ProfileExatas,
			wantMax:     0,
		},
		{
			name:        "all criativo",
			answers:     answersOf("criativo", "criativo", "criativo", "criativo", "criativo"),
			wantTally:   domain.ScoreTally{Humanities: 10, Exact: 0, Biological: 5},
			wantProfile: domain.ProfileHumanas,
			wantMax:     10,
		},
		{
			name:        "all analitico",
			answers:     answersOf("analitico", "analitico", "analitico", "analitico", "analitico"),
			wantTally:   domain.ScoreTally{Humanities: 0, Exact: 10, Biological: 5},
			wantProfile: domain.ProfileExatas,
			wantMax:     10,
		},
		{
			name:        "mixed",
			answers:     answersOf("criativo", "analitico", "social", "organizado", "organizado"),
			wantTally:   domain.ScoreTally{Humanities: 6, Exact: 4, Biological: 2},
			wantProfile: domain.ProfileHumanas,
			wantMax:     6,
		},
		{
			name:        "unknown values ignored",
			answers:     answersOf("curioso", "", "CRIATIVO", "social"),
			wantTally:   domain.ScoreTally{Humanities: 2},
			wantProfile: domain.ProfileHumanas,
			wantMax:     2,
		},
		{
			name:        "exact wins tie with humanities",
			answers:     answersOf("organizado", "organizado"),
			wantTally:   domain.ScoreTally{Humanities: 2, Exact: 2},
			wantProfile: domain.ProfileExatas,
			wantMax:     2,
		},
		{
			name:        "humanities leads when exact and biological tie",
			answers:     answersOf("criativo", "analitico", "analitico", "criativo", "social", "social"),
			wantTally:   domain.ScoreTally{Humanities: 8, Exact: 4, Biological: 4},
			wantProfile: domain.ProfileHumanas,
			wantMax:     8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreAnswers(tt.answers); got != tt.wantTally {
				t.Fatalf("expected tally %+v, got %+v", tt.wantTally, got)
			}
			profile, peak := ScoreAndClassify(tt.answers)
			if profile != tt.wantProfile {
				t.Fatalf("expected profile %q, got %q", tt.wantProfile, profile)
			}
			if peak != tt.wantMax {
				t.Fatalf("expected max score %d, got %d", tt.wantMax, peak)
			}
		})
	}
}

func TestClassifyTally_TieBreakOrder(t *testing.T) {
	tests := []struct {
		tally domain.ScoreTally
		want  domain.ProfileKey
	}{
		{domain.ScoreTally{}, domain.ProfileExatas},
		{domain.ScoreTally{Humanities: 3, Exact: 3, Biological: 3}, domain.ProfileExatas},
		{domain.ScoreTally{Humanities: 3, Exact: 1, Biological: 3}, domain.ProfileBiologicas},
		{domain.ScoreTally{Humanities: 1, Exact: 3, Biological: 3}, domain.ProfileExatas},
		{domain.ScoreTally{Humanities: 4, Exact: 3, Biological: 3}, domain.ProfileHumanas},
		{domain.ScoreTally{Humanities: 0, Exact: 0, Biological: 1}, domain.ProfileBiologicas},
	}
	for _, tt := range tests {
		if got := ClassifyTally(tt.tally); got != tt.want {
			t.Fatalf("tally %+v: expected %q, got %q", tt.tally, tt.want, got)
		}
	}
}

func tallyOf(t domain.ScoreTally, p domain.ProfileKey) int {
	switch p {
	case domain.ProfileExatas:
		return t.Exact
	case domain.ProfileBiologicas:
		return t.Biological
	default:
		return t.Humanities
	}
}

func TestScoreAndClassify_Properties(t *testing.T) {
	vocabulary := []string{AnswerCriativo, AnswerAnalitico, AnswerSocial, AnswerOrganizado, "outro"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := rng.Intn(12)
		answers := make(map[string]string, n)
		counts := map[string]int{}
		for j := 0; j < n; j++ {
			v := vocabulary[rng.Intn(len(vocabulary))]
			answers[fmt.Sprintf("q%d", j)] = v
			counts[v]++
		}

		tally := ScoreAnswers(answers)

		// Oraculo derivado de la tabla de pesos.
		wantHum := 2*counts[AnswerCriativo] + 2*counts[AnswerSocial] + counts[AnswerOrganizado]
		wantExa := 2*counts[AnswerAnalitico] + counts[AnswerOrganizado]
		wantBio := counts[AnswerCriativo] + counts[AnswerAnalitico]
		if tally.Humanities != wantHum || tally.Exact != wantExa || tally.Biological != wantBio {
			t.Fatalf("answers %v: expected (%d,%d,%d), got %+v", answers, wantHum, wantExa, wantBio, tally)
		}
		wantSum := 3*counts[AnswerCriativo] + 3*counts[AnswerAnalitico] + 2*counts[AnswerSocial] + 2*counts[AnswerOrganizado]
		if sum := tally.Humanities + tally.Exact + tally.Biological; sum != wantSum {
			t.Fatalf("expected tally sum %d, got %d", wantSum, sum)
		}

		profile, peak := ScoreAndClassify(answers)
		if !profile.Valid() {
			t.Fatalf("unexpected profile %q", profile)
		}
		if peak != max(tally.Exact, tally.Humanities, tally.Biological) {
			t.Fatalf("expected peak to be the maximum tally, got %d for %+v", peak, tally)
		}
		if tallyOf(tally, profile) != peak {
			t.Fatalf("winner %q should hold the peak tally %d, tally %+v", profile, peak, tally)
		}

		again, peakAgain := ScoreAndClassify(answers)
		if again != profile || peakAgain != peak {
			t.Fatalf("expected identical output on repeated call")
		}
	}
}
