package handler

import (
	"encoding/json"
	"net/http"
)

// HandleHealthz answers liveness probes. It reports 200 whenever the
// process is serving; it deliberately does not touch the database, so a
// waking store never makes the instance look dead.
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
