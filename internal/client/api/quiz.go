package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/typematch/typematch/internal/client/models"
)

// Questions fetches the ordered quiz question sequence. Unlike the other
// endpoints, the response body is a bare array rather than an envelope.
func (c *Client) Questions(ctx context.Context) ([]models.QuizQuestion, error) {
	raw, err := c.Request(ctx, http.MethodGet, "quiz/questions", nil)
	if err != nil {
		return nil, err
	}
	var questions []models.QuizQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SubmitQuiz scores the answers server-side and returns the resulting
// personality type.
func (c *Client) SubmitQuiz(ctx context.Context, answers models.QuizAnswers) (string, error) {
	payload := map[string]models.QuizAnswers{"answers": answers}
	raw, err := c.Request(ctx, http.MethodPost, "quiz/results", payload)
	if err != nil {
		return "", err
	}
	var res struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", err
	}
	return res.Type, nil
}
