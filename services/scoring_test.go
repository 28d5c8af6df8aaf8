package services

import (
	"reflect"
	"testing"

	"quizhub/models"
)

func capitalsQuiz() *models.Quiz {
	return &models.Quiz{
		ID:    1,
		Title: "Capitals and sums",
		Questions: []models.Question{
			{
				ID:            1,
				Text:          "Capital of France?",
				CorrectAnswer: "Paris",
			},
			{
				ID:   2,
				Text: "2 + 3?",
				Options: []models.Option{
					{ID: 1, QuestionID: 2, Text: "4", IsCorrect: false},
					{ID: 2, QuestionID: 2, Text: "5", IsCorrect: true},
				},
			},
		},
	}
}

func TestScoreSubmissionAllCorrect(t *testing.T) {
	quiz := capitalsQuiz()

	answers := ScoreSubmission(quiz, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswer: "Paris"},
		{QuestionID: 2, SelectedAnswer: "5"},
	})

	result := models.Result{Answers: answers}
	if result.Score() != 2 || result.TotalQuestions() != 2 || result.Percentage() != 100 {
		t.Fatalf("expected 2/2 = 100%%, got %d/%d = %d%%", result.Score(), result.TotalQuestions(), result.Percentage())
	}
}

func TestScoreSubmissionAllWrong(t *testing.T) {
	quiz := capitalsQuiz()

	answers := ScoreSubmission(quiz, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswer: "London"},
		{QuestionID: 2, SelectedAnswer: "4"},
	})

	result := models.Result{Answers: answers}
	if result.Score() != 0 || result.Percentage() != 0 {
		t.Fatalf("expected 0%%, got %d/%d = %d%%", result.Score(), result.TotalQuestions(), result.Percentage())
	}
}

func TestScoreOptionsModeRoundTrip(t *testing.T) {
	quiz := capitalsQuiz()

	cases := []struct {
		name     string
		answer   SubmittedAnswer
		expected bool
	}{
		{"correct option", SubmittedAnswer{QuestionID: 2, SelectedAnswer: "5"}, true},
		{"existing wrong option", SubmittedAnswer{QuestionID: 2, SelectedAnswer: "4"}, false},
		{"text not among options", SubmittedAnswer{QuestionID: 2, SelectedAnswer: "7"}, false},
		{"unknown question id", SubmittedAnswer{QuestionID: 99, SelectedAnswer: "5"}, false},
	}
	for _, tc := range cases {
		answers := ScoreSubmission(quiz, []SubmittedAnswer{tc.answer})
		if answers[0].IsCorrect != tc.expected {
			t.Fatalf("%s: expected isCorrect=%v, got %v", tc.name, tc.expected, answers[0].IsCorrect)
		}
	}
}

func TestScoreFreeTextIsCaseSensitive(t *testing.T) {
	quiz := capitalsQuiz()

	answers := ScoreSubmission(quiz, []SubmittedAnswer{{QuestionID: 1, SelectedAnswer: "paris"}})
	if answers[0].IsCorrect {
		t.Fatalf("free-text match must be exact and case-sensitive")
	}
}

func TestScoreChecksBothAnswerShapes(t *testing.T) {
	// Both shapes present on one question; either one matching scores.
	quiz := &models.Quiz{
		ID: 1,
		Questions: []models.Question{
			{
				ID:            1,
				Text:          "Pick the even number",
				CorrectAnswer: "two",
				Options: []models.Option{
					{ID: 1, QuestionID: 1, Text: "2", IsCorrect: true},
					{ID: 2, QuestionID: 1, Text: "3", IsCorrect: false},
				},
			},
		},
	}

	byText := ScoreSubmission(quiz, []SubmittedAnswer{{QuestionID: 1, SelectedAnswer: "two"}})
	if !byText[0].IsCorrect {
		t.Fatalf("free-text answer should score even when options exist")
	}
	byOption := ScoreSubmission(quiz, []SubmittedAnswer{{QuestionID: 1, SelectedAnswer: "2"}})
	if !byOption[0].IsCorrect {
		t.Fatalf("flagged option should score even when a free-text answer exists")
	}
}

func TestScoreEmptyCorrectAnswerNeverMatches(t *testing.T) {
	quiz := &models.Quiz{
		ID:        1,
		Questions: []models.Question{{ID: 1, Text: "options only"}},
	}

	answers := ScoreSubmission(quiz, []SubmittedAnswer{{QuestionID: 1, SelectedAnswer: ""}})
	if answers[0].IsCorrect {
		t.Fatalf("an unset free-text answer must not match the empty string")
	}
}

func TestScoreSubmissionDeterministic(t *testing.T) {
	quiz := capitalsQuiz()
	submitted := []SubmittedAnswer{
		{QuestionID: 2, SelectedAnswer: "5"},
		{QuestionID: 1, SelectedAnswer: "London"},
	}

	first := ScoreSubmission(quiz, submitted)
	second := ScoreSubmission(quiz, submitted)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scoring is not deterministic: %+v vs %+v", first, second)
	}
}

func TestScorePreservesSubmissionOrder(t *testing.T) {
	quiz := capitalsQuiz()

	answers := ScoreSubmission(quiz, []SubmittedAnswer{
		{QuestionID: 2, SelectedAnswer: "5"},
		{QuestionID: 1, SelectedAnswer: "Paris"},
	})
	if answers[0].QuestionID != 2 || answers[1].QuestionID != 1 {
		t.Fatalf("answers must keep submission order, got %+v", answers)
	}
}
