package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/pkg/metrics"
)

// Outcome is the result of gating one navigation.
type Outcome string

const (
	OutcomeAllow                Outcome = "allow"
	OutcomeRedirectLogin        Outcome = "redirect_login"
	OutcomeRedirectUnauthorized Outcome = "redirect_unauthorized"
)

// Verdict tells the router what to do with a navigation. Location is set for redirects.
type Verdict struct {
	Outcome  Outcome
	Location string
}

func (v Verdict) Allowed() bool { return v.Outcome == OutcomeAllow }

// RouteGuard gates navigations by authentication and route permissions.
type RouteGuard struct {
	log zerolog.Logger
}

func NewRouteGuard(log zerolog.Logger) *RouteGuard {
	return &RouteGuard{log: log}
}

// Check decides whether session may navigate to route. A nil session is
// treated as unauthenticated. Authenticated navigations reset the session
// timer before permissions are evaluated.
func (g *RouteGuard) Check(ctx context.Context, session ports.SessionStore, to domain.Route) Verdict {
	v := g.decide(ctx, session, to)
	metrics.GuardDecisionsTotal.WithLabelValues(to.Name, string(v.Outcome)).Inc()
	if !v.Allowed() {
		g.log.Debug().Str("route", to.Name).Str("path", to.Path).Str("outcome", string(v.Outcome)).Msg("navigation redirected")
	}
	return v
}

func (g *RouteGuard) decide(ctx context.Context, session ports.SessionStore, to domain.Route) Verdict {
	var data *domain.AuthenticatedUserData
	if session != nil {
		data = session.AuthenticatedUserData(ctx)
	}

	if data == nil || !data.IsAuthenticated {
		if to.Path == domain.PathLogin {
			return Verdict{Outcome: OutcomeAllow}
		}
		return Verdict{Outcome: OutcomeRedirectLogin, Location: domain.PathLogin}
	}

	session.ResetSessionTimeout()

	if domain.HasAny(data.Permissions, to.Permissions) {
		return Verdict{Outcome: OutcomeAllow}
	}
	if to.Path == domain.PathUnauthorized {
		return Verdict{Outcome: OutcomeAllow}
	}
	return Verdict{Outcome: OutcomeRedirectUnauthorized, Location: domain.PathUnauthorized}
}
