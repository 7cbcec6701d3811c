package stores

import (
	"log/slog"
	"time"
)

// dismissState names the steps of the modal dismissal state machine. One
// invocation walks WaitingForModal through whichever steps its plan enables
// and always ends in Done; every failure along the way is swallowed because
// a missing modal is expected, not exceptional.
type dismissState int

const (
	stateWaitingForModal dismissState = iota
	stateGuestButtonFound
	stateCloseButtonFound
	stateEscapeSent
	stateClickedOutside
	stateCookieAccepted
	stateDone
)

func (s dismissState) String() string {
	switch s {
	case stateWaitingForModal:
		return "WaitingForModal"
	case stateGuestButtonFound:
		return "GuestButtonFound"
	case stateCloseButtonFound:
		return "CloseButtonFound"
	case stateEscapeSent:
		return "EscapeSent"
	case stateClickedOutside:
		return "ClickedOutside"
	case stateCookieAccepted:
		return "CookieAccepted"
	default:
		return "Done"
	}
}

// dismissPlan selects which dismissal steps a storefront needs. Cookie
// consent is not part of the plan: it always runs last because consent
// banners appear independently of the welcome modal.
type dismissPlan struct {
	guest        bool
	closeButton  bool
	escape       bool
	clickOutside bool
}

// stepTimeout bounds each individual dismissal probe.
const stepTimeout = 2 * time.Second

var guestSelectors = []string{
	`[data-testid="guest-button"]`,
}

var closeSelectors = []string{
	`button[aria-label="Close"]`,
	`button[aria-label="close"]`,
	`.modal-close`,
	`.close-button`,
	`[data-testid="close-button"]`,
	`[data-testid="modal-close"]`,
	`button[class*="close"]`,
}

var cookieSelectors = []string{
	`[data-testid="accept-cookies"]`,
	`button[class*="accept"]`,
}

// dismissOverlays clears interstitial overlays before extraction. It tries
// the plan's steps in order and short-circuits after the first one that
// lands, except the cookie-accept step which always runs. It never fails:
// the return value (the states visited, ending in Done) exists for logging
// and tests only.
func dismissOverlays(sess Session, plan dismissPlan, log *slog.Logger) []dismissState {
	visited := []dismissState{stateWaitingForModal}
	handled := false

	if plan.guest {
		if clickAny(sess, guestSelectors) ||
			sess.ClickVisibleText("button, a", `(?i)guest`, stepTimeout) {
			visited = append(visited, stateGuestButtonFound)
			handled = true
		}
	}

	if !handled && plan.closeButton {
		if clickAny(sess, closeSelectors) ||
			sess.ClickVisibleText("button", `[×✕]`, stepTimeout) {
			visited = append(visited, stateCloseButtonFound)
			handled = true
		}
	}

	if !handled && plan.escape {
		if err := sess.PressEscape(); err == nil {
			visited = append(visited, stateEscapeSent)
			handled = true
		}
	}

	if !handled && plan.clickOutside {
		if err := sess.ClickPoint(50, 50); err == nil {
			visited = append(visited, stateClickedOutside)
		}
	}

	// Consent banners live outside the welcome modal, so this step runs
	// regardless of what happened above.
	if clickAny(sess, cookieSelectors) ||
		sess.ClickVisibleText("button", `(?i)^accept( all)?( cookies)?$`, stepTimeout) {
		visited = append(visited, stateCookieAccepted)
	}

	visited = append(visited, stateDone)
	if log != nil {
		log.Debug("modal dismissal finished", "states", stateNames(visited))
	}
	return visited
}

func clickAny(sess Session, selectors []string) bool {
	for _, sel := range selectors {
		if sess.ClickVisible(sel, stepTimeout) {
			return true
		}
	}
	return false
}

func stateNames(states []dismissState) []string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.String()
	}
	return names
}
