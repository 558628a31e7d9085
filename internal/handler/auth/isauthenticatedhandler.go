package auth

import (
	"net/http"

	"github.com/agentcart/agentcart/internal/httputil"
	"github.com/agentcart/agentcart/internal/logging"
	"github.com/agentcart/agentcart/internal/svc"
	"github.com/agentcart/agentcart/internal/types"
)

// Check whether a wallet session token is still valid. Always 200: a bad,
// expired or missing token is authenticated=false, never an error status.
func IsAuthenticatedHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.IsAuthenticatedRequest
		if err := httputil.Parse(r, &req); err != nil {
			logging.Errorf("Failed to parse auth request: %v", err)
			httputil.OkJSON(w, &types.IsAuthenticatedResponse{Authenticated: false})
			return
		}

		result := svcCtx.Verifier.Verify(r.Context(), req.AuthToken)
		httputil.OkJSON(w, &types.IsAuthenticatedResponse{
			Authenticated: result.Authenticated,
			Email:         result.Email,
		})
	}
}
