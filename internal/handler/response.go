package handler

import (
	"net/http"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}
