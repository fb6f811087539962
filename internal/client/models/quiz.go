package models

// QuizOption is one of the two poles offered for a quiz question.
type QuizOption struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// QuizQuestion is a single personality-quiz question.
type QuizQuestion struct {
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Options []QuizOption `json:"options"`
}

// QuizAnswers maps question IDs to the chosen option value.
type QuizAnswers map[int64]string
