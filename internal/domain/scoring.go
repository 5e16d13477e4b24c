package domain

import "math"

// AnswerBreakdown is the per-answer slice of a sealed attempt that the
// aggregator consumes: the outcome plus the answered question's weight and
// classification.
type AnswerBreakdown struct {
	Correct    bool
	Points     int
	Type       QuestionType
	Difficulty string
	Domain     string
}

// Scorecard is the aggregate result of one sealed attempt. Each breakdown
// map entry is points_earned / points_possible for that bucket.
type Scorecard struct {
	TotalQuestions  int
	CorrectCount    int
	TotalPoints     int
	EarnedPoints    int
	ScorePercentage float64

	ByType       map[string]float64
	ByDifficulty map[string]float64
	ByDomain     map[string]float64
}

type bucketTally struct {
	earned   int
	possible int
}

// ScoreAttempt computes the scorecard over the full answer set in one pass.
// An empty answer set yields a zero score.
func ScoreAttempt(answers []AnswerBreakdown) Scorecard {
	card := Scorecard{
		ByType:       make(map[string]float64),
		ByDifficulty: make(map[string]float64),
		ByDomain:     make(map[string]float64),
	}
	if len(answers) == 0 {
		return card
	}

	typeTally := make(map[string]*bucketTally)
	difficultyTally := make(map[string]*bucketTally)
	domainTally := make(map[string]*bucketTally)

	for _, ans := range answers {
		points := ans.Points
		if points <= 0 {
			points = 1
		}
		qtype := ans.Type
		if qtype == "" {
			qtype = MultipleChoice
		}
		difficulty := ans.Difficulty
		if difficulty == "" {
			difficulty = DifficultyMedium
		}
		domain := ans.Domain
		if domain == "" {
			domain = "General"
		}

		card.TotalQuestions++
		card.TotalPoints += points

		earned := 0
		if ans.Correct {
			earned = points
			card.CorrectCount++
			card.EarnedPoints += points
		}

		tallyInto(typeTally, string(qtype), earned, points)
		tallyInto(difficultyTally, difficulty, earned, points)
		tallyInto(domainTally, domain, earned, points)
	}

	if card.TotalPoints > 0 {
		card.ScorePercentage = float64(card.EarnedPoints) / float64(card.TotalPoints) * 100
	}

	card.ByType = ratios(typeTally)
	card.ByDifficulty = ratios(difficultyTally)
	card.ByDomain = ratios(domainTally)
	return card
}

func tallyInto(buckets map[string]*bucketTally, key string, earned, possible int) {
	tally, ok := buckets[key]
	if !ok {
		tally = &bucketTally{}
		buckets[key] = tally
	}
	tally.earned += earned
	tally.possible += possible
}

func ratios(buckets map[string]*bucketTally) map[string]float64 {
	out := make(map[string]float64, len(buckets))
	for key, tally := range buckets {
		if tally.possible == 0 {
			out[key] = 0
			continue
		}
		out[key] = round3(float64(tally.earned) / float64(tally.possible))
	}
	return out
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// Grade returns the letter grade for a score percentage.
func (s Scorecard) Grade() string {
	switch {
	case s.ScorePercentage >= 90:
		return "A"
	case s.ScorePercentage >= 80:
		return "B"
	case s.ScorePercentage >= 70:
		return "C"
	case s.ScorePercentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// Passed reports whether the score meets the container's passing threshold.
func (s Scorecard) Passed(passingScore float64) bool {
	return s.ScorePercentage >= passingScore
}
