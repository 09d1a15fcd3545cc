package cli

import (
	"context"
	"fmt"
	"os"
)

// dashboardScreen is the main command loop for signed-in users with finished
// onboarding. Returns false on exit.
func (a *App) dashboardScreen(ctx context.Context) bool {
	a.printDashboard()

	for {
		cmd, err := getSimpleText(a.reader, "\nCommands: dashboard, profile, refresh, signout, exit", os.Stdout)
		if err != nil {
			return false
		}

		switch cmd {
		case "dashboard", "":
			a.printDashboard()
		case "profile":
			a.profileScreen(ctx)
		case "refresh":
			if err := a.ctrl.RefreshProfile(ctx); err != nil {
				fmt.Printf("Refresh failed: %s\n", err.Error())
				continue
			}
			a.printDashboard()
		case "signout":
			if err := a.ctrl.SignOut(ctx); err != nil {
				fmt.Printf("Sign-out error: %s\n", err.Error())
			}
			return true
		case "exit", "quit":
			fmt.Println("Bye!")
			return false
		case "help":
			fmt.Println("Available commands: dashboard, profile, refresh, signout, exit")
		default:
			fmt.Printf("Unknown command %q\n", cmd)
		}
	}
}

func (a *App) printDashboard() {
	p := a.ctrl.State().Profile
	if p == nil {
		fmt.Println("No profile data available")
		return
	}

	fmt.Printf("\n=== Health Rocket: %s ===\n", p.Name)
	fmt.Printf("Level:        %d\n", p.Level)
	fmt.Printf("Fuel Points:  %d\n", p.FuelPoints)
	fmt.Printf("Burn Streak:  %d days\n", p.BurnStreak)
	if p.HealthAssessmentsCompleted > 0 {
		fmt.Printf("HealthScore:  %.2f / 10\n", p.HealthScore)
		fmt.Printf("Healthspan:   %.1f years\n", p.HealthspanYears)
	} else {
		fmt.Println("HealthScore:  not assessed yet")
	}
}
