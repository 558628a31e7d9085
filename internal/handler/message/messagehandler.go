package message

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/agentcart/agentcart/internal/httputil"
	"github.com/agentcart/agentcart/internal/svc"
	"github.com/agentcart/agentcart/internal/types"
)

// Route a chat message through the intent plugin. Intermediate progress
// notes from long-running intents are folded into the final reply.
func MessageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.MessageRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			httputil.Error(w, fmt.Errorf("text is required"))
			return
		}

		var notes []string
		res := svcCtx.Plugin.HandleMessage(r.Context(), req.Text, func(note string) {
			notes = append(notes, note)
		})

		reply := res.Reply
		if len(notes) > 0 && reply != "" {
			reply = strings.Join(append(notes, reply), "\n\n")
		}

		httputil.OkJSON(w, &types.MessageResponse{
			Handled: res.Handled,
			Reply:   reply,
		})
	}
}
