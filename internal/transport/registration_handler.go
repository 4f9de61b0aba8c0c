package transport

import (
	"encoding/json"
	"net/http"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
	"github.com/Abepena/nj-stars-sub000/internal/service"
)

// RegistrationHandler accepts event sign-ups for the authenticated viewer.
type RegistrationHandler struct {
	registrations service.RegistrationService
	mux           *http.ServeMux
}

func NewRegistrationHandler(registrations service.RegistrationService) *RegistrationHandler {
	h := &RegistrationHandler{registrations: registrations, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /{$}", h.handleRegister)
	return h
}

func (h *RegistrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// handleRegister signs the current viewer up for an event
// @Summary Register for an event
// @Tags registrations
// @Accept json
// @Produce json
// @Param registration body domain.RegistrationDTO true "Registration"
// @Success 201 {object} domain.APIResponse{data=domain.Registration}
// @Failure 400 {object} domain.APIResponse{error=string}
// @Router /registrations [post]
func (h *RegistrationHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegistrationDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	reg, err := h.registrations.Register(r.Context(), UserID(r.Context()), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.APIResponse{Data: reg})
}
