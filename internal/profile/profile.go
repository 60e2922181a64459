package profile

import (
	"context"
	"net/http"
	"time"

	"Ampere/internal/auth"
	"Ampere/internal/calc/calchttp"
	"Ampere/internal/logger"
)

type premiumReader interface {
	PremiumUntil(ctx context.Context, userID int) (*time.Time, error)
}

type ProfileHandler struct {
	Repo premiumReader
	Log  *logger.Logger
	Now  func() time.Time
}

type Profile struct {
	ID           int        `json:"id"`
	Login        string     `json:"login"`
	IsPremium    bool       `json:"is_premium"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`
}

// GetProfile reports the caller and whether premium tools are open to them.
// An expired premium date is reported as absent.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	until, err := h.Repo.PremiumUntil(r.Context(), userID)
	if err != nil {
		h.Log.Errorw("premium lookup failed", "user_id", userID, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	prof := Profile{ID: userID, Login: auth.Login(r.Context())}
	if until != nil && h.now().Before(*until) {
		prof.IsPremium = true
		prof.PremiumUntil = until
	}
	calchttp.WriteJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
