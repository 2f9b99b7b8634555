package web

import (
	"encoding/json"
	"net/http"
)

// perfTopN caps how many paths and queries the perf endpoint reports.
const perfTopN = 25

// handlePerf returns aggregated request and query timings as JSON.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	snap := perfCollector.Stats(perfTopN)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		internalError(w, err)
	}
}
