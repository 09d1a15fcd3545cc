package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/healthrocket/app/internal/client/session"
)

// Root dispatches to the screen matching the controller's current route and
// re-evaluates after each screen returns. Screens return false to exit.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Health Rocket (type 'help' for commands)")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch a.ctrl.Route() {
		case session.RouteLoading:
			time.Sleep(100 * time.Millisecond)
		case session.RouteUnauthenticated:
			if !a.authScreen(ctx) {
				return
			}
		case session.RouteOnboarding:
			if !a.onboardingScreen(ctx) {
				return
			}
		case session.RouteMain:
			if !a.dashboardScreen(ctx) {
				return
			}
		}
	}
}
