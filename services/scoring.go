package services

import "quizhub/models"

// SubmittedAnswer is one answer from a quiz submission.
type SubmittedAnswer struct {
	QuestionID     uint   `json:"question_id" binding:"required"`
	SelectedAnswer string `json:"selected_answer"`
}

// ScoreSubmission evaluates each submitted answer against the quiz and
// returns the frozen answer records, in submission order. Correctness is
// decided here once; results are never re-scored when the quiz changes.
func ScoreSubmission(quiz *models.Quiz, submitted []SubmittedAnswer) []models.Answer {
	answers := make([]models.Answer, 0, len(submitted))
	for _, sub := range submitted {
		answers = append(answers, models.Answer{
			QuestionID:     sub.QuestionID,
			SelectedAnswer: sub.SelectedAnswer,
			IsCorrect:      isCorrectAnswer(findQuestion(quiz, sub.QuestionID), sub.SelectedAnswer),
		})
	}
	return answers
}

func findQuestion(quiz *models.Quiz, questionID uint) *models.Question {
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == questionID {
			return &quiz.Questions[i]
		}
	}
	return nil
}

// isCorrectAnswer checks both stored answer shapes: a free-text correct
// answer (exact, case-sensitive match) or an option whose text matches and
// carries the is_correct flag. Either one matching marks the answer correct.
// An unknown question never scores.
func isCorrectAnswer(question *models.Question, selected string) bool {
	if question == nil {
		return false
	}
	if question.CorrectAnswer != "" && selected == question.CorrectAnswer {
		return true
	}
	for _, opt := range question.Options {
		if opt.Text == selected && opt.IsCorrect {
			return true
		}
	}
	return false
}
