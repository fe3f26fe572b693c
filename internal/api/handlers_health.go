package api

import (
	"net/http"

	"github.com/shohag/countboard/internal/models"
)

const serviceName = "countboard-api"

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Service: serviceName,
	})
}
