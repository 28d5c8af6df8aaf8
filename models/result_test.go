package models

import (
	"encoding/json"
	"testing"
)

func TestResultDerivedViews(t *testing.T) {
	result := Result{Answers: []Answer{
		{QuestionID: 1, IsCorrect: true},
		{QuestionID: 2, IsCorrect: false},
		{QuestionID: 3, IsCorrect: true},
	}}

	if result.Score() != 2 {
		t.Fatalf("expected score 2, got %d", result.Score())
	}
	if result.TotalQuestions() != 3 {
		t.Fatalf("expected 3 total questions, got %d", result.TotalQuestions())
	}
	if result.Percentage() != 67 {
		t.Fatalf("expected 67%%, got %d%%", result.Percentage())
	}
}

func TestResultPercentageEmptyAnswers(t *testing.T) {
	result := Result{}
	if result.Percentage() != 0 {
		t.Fatalf("empty answer list must yield 0%%, got %d%%", result.Percentage())
	}
}

func TestResultPercentageRounding(t *testing.T) {
	oneOfThree := Result{Answers: []Answer{
		{IsCorrect: true}, {IsCorrect: false}, {IsCorrect: false},
	}}
	if oneOfThree.Percentage() != 33 {
		t.Fatalf("1/3 should round to 33, got %d", oneOfThree.Percentage())
	}

	oneOfTwo := Result{Answers: []Answer{
		{IsCorrect: true}, {IsCorrect: false},
	}}
	if oneOfTwo.Percentage() != 50 {
		t.Fatalf("1/2 should be 50, got %d", oneOfTwo.Percentage())
	}
}

func TestResultMarshalIncludesDerivedFields(t *testing.T) {
	result := Result{ID: 7, Answers: []Answer{
		{QuestionID: 1, IsCorrect: true},
		{QuestionID: 2, IsCorrect: false},
	}}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var view map[string]any
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if view["score"] != float64(1) {
		t.Fatalf("expected score 1 in JSON, got %v", view["score"])
	}
	if view["total_questions"] != float64(2) {
		t.Fatalf("expected total_questions 2 in JSON, got %v", view["total_questions"])
	}
	if view["percentage"] != float64(50) {
		t.Fatalf("expected percentage 50 in JSON, got %v", view["percentage"])
	}
}
