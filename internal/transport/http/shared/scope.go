package shared

import (
	"context"

	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/domain/identity"
)

const (
	ScopeAll         = "all"
	ScopeGestor      = "gestor"
	ScopeColaborador = "colaborador"
)

// ResolveScope translates the caller's role into a listing scope: ADMIN
// sees everything, GESTOR sees records they authored plus their direct
// reports', COLABORADOR sees only their own.
func ResolveScope(ctx context.Context, user auth.UserContext, users *identity.Store) (mode, viewerID string, memberIDs []string, err error) {
	switch user.Role {
	case auth.RoleAdmin:
		return ScopeAll, "", nil, nil
	case auth.RoleGestor:
		members, err := users.DirectReportIDs(ctx, user.UserID)
		if err != nil {
			return "", "", nil, err
		}
		return ScopeGestor, user.UserID, members, nil
	default:
		return ScopeColaborador, user.UserID, nil, nil
	}
}
