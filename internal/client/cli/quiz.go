package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/typematch/typematch/internal/client/models"
)

// Quiz runs the personality quiz: it walks the ordered question sequence,
// collects one answer per question, submits them for scoring, and patches
// the cached user with the resulting type.
func (a *App) Quiz(ctx context.Context) error {
	current := a.session.CurrentUser()
	if current == nil {
		return nil
	}

	questions, err := a.api.Questions(ctx)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "No quiz questions available.")
		return nil
	}

	answers := models.QuizAnswers{}
	for i, q := range questions {
		fmt.Fprintf(a.out, "\n[%d/%d] %s\n", i+1, len(questions), q.Text)
		for n, opt := range q.Options {
			fmt.Fprintf(a.out, "  %d) %s\n", n+1, opt.Text)
		}

		choice := -1
		for choice < 0 {
			input, err := getSimpleText(a.reader, "Your answer", a.out)
			if err != nil {
				return err
			}
			n, convErr := strconv.Atoi(input)
			if convErr != nil || n < 1 || n > len(q.Options) {
				fmt.Fprintf(a.out, "Please enter a number between 1 and %d.\n", len(q.Options))
				continue
			}
			choice = n - 1
		}
		answers[q.ID] = q.Options[choice].Value
	}

	mbti, err := a.api.SubmitQuiz(ctx, answers)
	if err != nil {
		return err
	}

	a.session.UpdateCurrentUser(func(u *models.User) {
		u.MBTI = mbti
	})

	fmt.Fprintf(a.out, "\nYour personality type: %s\n", mbti)

	details, err := a.api.MBTIDetails(ctx, current.Username)
	if err != nil {
		// The result itself is already saved server-side; details are a bonus.
		a.log.Debug(ctx, "failed to fetch mbti details", "err", err)
		return nil
	}
	if details != nil {
		fmt.Fprintf(a.out, "%s: %s\nLearn more: %s\n", details.Title, details.Description, details.Site)
	}
	return nil
}

// Result shows the saved quiz outcome without retaking the quiz.
func (a *App) Result(ctx context.Context) error {
	current := a.session.CurrentUser()
	if current == nil {
		return nil
	}
	if current.MBTI == "" {
		fmt.Fprintln(a.out, "You haven't taken the quiz yet. Type 'quiz' to start.")
		return nil
	}

	fmt.Fprintf(a.out, "Your personality type: %s\n", current.MBTI)

	details, err := a.api.MBTIDetails(ctx, current.Username)
	if err != nil {
		a.log.Debug(ctx, "failed to fetch mbti details", "err", err)
		return nil
	}
	if details != nil {
		fmt.Fprintf(a.out, "%s: %s\nLearn more: %s\n", details.Title, details.Description, details.Site)
	}
	return nil
}
