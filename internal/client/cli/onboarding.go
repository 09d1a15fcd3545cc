package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/healthrocket/app/internal/client/models"
	"github.com/healthrocket/app/internal/client/onboarding"
)

var stepHeadlines = map[string]string{
	models.StepMission:          "Your Mission: add 20+ years of healthy life.",
	models.StepBurnStreak:       "Burn Streak: earn Fuel Points every day to keep your streak alive.",
	models.StepCommunity:        "Community: join a crew and climb the leaderboards together.",
	models.StepHealthAssessment: "Health Assessment: rate five areas to get your baseline HealthScore.",
	models.StepLaunch:           "Launch: you're ready. Complete onboarding to start your journey.",
}

// onboardingScreen walks the user through the wizard. Returns false on exit.
func (a *App) onboardingScreen(ctx context.Context) bool {
	seq := onboarding.NewSequencer(a.ctrl, a.client, a.logger)

	for !seq.Completed() {
		fmt.Printf("\n[Onboarding] %s\n", stepHeadlines[seq.Step()])

		cmd, err := getSimpleText(a.reader, "Commands: next, skip, signout, exit", os.Stdout)
		if err != nil {
			return false
		}

		switch cmd {
		case "next", "":
			if seq.Step() == models.StepHealthAssessment {
				if err := a.runAssessment(ctx, seq); err != nil {
					fmt.Printf("Could not save your assessment: %s\n", err.Error())
					fmt.Println("Your answers are kept; choose 'next' to retry.")
				}
				continue
			}
			if err := seq.Advance(ctx); err != nil {
				fmt.Printf("Could not save your progress: %s\n", err.Error())
			}
		case "skip":
			if err := seq.Skip(ctx); err != nil {
				fmt.Printf("Could not complete onboarding: %s\n", err.Error())
			}
		case "signout":
			if err := a.ctrl.SignOut(ctx); err != nil {
				fmt.Printf("Sign-out error: %s\n", err.Error())
			}
			return true
		case "exit", "quit":
			fmt.Println("Bye!")
			return false
		default:
			fmt.Printf("Unknown command %q\n", cmd)
		}
	}

	fmt.Println("\nOnboarding complete. Welcome aboard!")
	return true
}

// runAssessment collects the five ratings with back navigation, shows the
// result, and commits it through the sequencer.
func (a *App) runAssessment(ctx context.Context, seq *onboarding.Sequencer) error {
	assessment := onboarding.NewAssessment()
	fmt.Println("\nRate each area from 1 to 10. Enter 'b' to go back.")

	for {
		current, total := assessment.Progress()
		prompt := fmt.Sprintf("(%d/%d) How would you rate your %s?", current, total, assessment.Category())

		line, err := getSimpleText(a.reader, prompt+" [1-10, b=back]", os.Stdout)
		if err != nil {
			return err
		}
		if line == "b" {
			if !assessment.Previous() {
				fmt.Println("Already at the first question")
			}
			continue
		}
		if line != "" {
			v := 0
			if _, err := fmt.Sscanf(line, "%d", &v); err != nil {
				fmt.Println("Please enter a number between 1 and 10")
				continue
			}
			if err := assessment.SetRating(v); err != nil {
				fmt.Println(err.Error())
				continue
			}
		}
		if !assessment.Next() {
			break
		}
	}

	fmt.Printf("\nYour HealthScore: %.2f / 10\n", assessment.Score())
	fmt.Printf("Projected healthspan: %.1f years\n", assessment.HealthspanYears())

	return seq.CompleteAssessment(ctx, assessment)
}
