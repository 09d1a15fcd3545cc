package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/healthrocket/app/internal/client/api"
)

// profileScreen shows account details and lets the user change their name.
func (a *App) profileScreen(ctx context.Context) {
	st := a.ctrl.State()
	if st.Profile == nil || st.Session == nil {
		fmt.Println("No profile data available")
		return
	}
	p := st.Profile

	fmt.Printf("\n--- Profile ---\n")
	fmt.Printf("Name:         %s\n", p.Name)
	fmt.Printf("Email:        %s\n", p.Email)
	fmt.Printf("Member since: %s\n", p.CreatedAt.Format("2006-01-02"))
	fmt.Printf("Assessments:  %d completed\n", p.HealthAssessmentsCompleted)

	cmd, err := getSimpleText(a.reader, "Commands: rename, back", os.Stdout)
	if err != nil || cmd != "rename" {
		return
	}

	name, err := getSimpleText(a.reader, "Enter new name", os.Stdout)
	if err != nil || name == "" {
		return
	}

	if _, err := a.client.UpdateProfile(ctx, st.Session.UserID, api.ProfilePatch{Name: &name}); err != nil {
		fmt.Printf("Could not update name: %s\n", err.Error())
		return
	}
	if err := a.ctrl.RefreshProfile(ctx); err != nil {
		fmt.Printf("Refresh failed: %s\n", err.Error())
		return
	}
	fmt.Println("Name updated!")
}
