package middleware

import (
	"net/http"
	"strings"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/auth"
)

const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

type routeClass int

const (
	routePublic routeClass = iota
	routeProtected
	routeAuthOnly
	routeRoot
)

type tokenState int

const (
	tokenNone tokenState = iota
	tokenInvalid
	tokenValid
)

type guardAction int

const (
	actionAllow guardAction = iota
	actionLoginRedirect
	actionLoginRedirectClear
	actionLandingRedirect
)

// protectedPrefixes are the admin pages that require a valid session.
var protectedPrefixes = []string{
	"/dashboard", "/students", "/plans", "/exercises", "/workouts",
}

func classifyPath(path string) routeClass {
	if path == "/" {
		return routeRoot
	}
	if path == LoginPath || strings.HasPrefix(path, LoginPath+"/") {
		return routeAuthOnly
	}
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return routeProtected
		}
	}
	return routePublic
}

// guardTable is the full page-guard decision table. The guard is a pure
// classifier over {path class, token state}; it keeps no per-request memory
// beyond what the token itself encodes.
var guardTable = map[routeClass]map[tokenState]guardAction{
	routeProtected: {
		tokenNone:    actionLoginRedirect,
		tokenInvalid: actionLoginRedirectClear,
		tokenValid:   actionAllow,
	},
	routeAuthOnly: {
		tokenNone:    actionAllow,
		tokenInvalid: actionAllow,
		tokenValid:   actionLandingRedirect,
	},
	routeRoot: {
		tokenNone:    actionLoginRedirect,
		tokenInvalid: actionLoginRedirect,
		tokenValid:   actionLandingRedirect,
	},
	routePublic: {
		tokenNone:    actionAllow,
		tokenInvalid: actionAllow,
		tokenValid:   actionAllow,
	},
}

// PageGuard redirects browser page requests based on session validity.
// It uses the portable HMAC codec so the same decision logic could run in
// a restricted edge runtime in front of the app.
type PageGuard struct {
	codec auth.Codec
}

func NewPageGuard(codec auth.Codec) *PageGuard {
	return &PageGuard{codec: codec}
}

func (g *PageGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch guardTable[classifyPath(r.URL.Path)][g.tokenState(r)] {
		case actionAllow:
			next.ServeHTTP(w, r)
		case actionLoginRedirect:
			http.Redirect(w, r, LoginPath, http.StatusFound)
		case actionLoginRedirectClear:
			ClearAuthCookie(w)
			http.Redirect(w, r, LoginPath, http.StatusFound)
		case actionLandingRedirect:
			http.Redirect(w, r, LandingPath, http.StatusFound)
		}
	})
}

func (g *PageGuard) tokenState(r *http.Request) tokenState {
	cookie, err := r.Cookie(AuthCookie)
	if err != nil || cookie.Value == "" {
		return tokenNone
	}
	if g.codec.Verify(cookie.Value) == nil {
		return tokenInvalid
	}
	return tokenValid
}
