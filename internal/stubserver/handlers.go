// Package stubserver implements the coaching backend's HTTP contract in
// memory so the client can be exercised without the real services.
package stubserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"example.com/fitcoach/internal/domain"
)

// Handler serves the user-service and tracking-service route families.
type Handler struct {
	repo *Repository
	auth AuthConfig
}

// NewHandler builds a Handler over the repository.
func NewHandler(repo *Repository, auth AuthConfig) *Handler {
	return &Handler{repo: repo, auth: auth}
}

// Router wires every route. Tracking routes require a valid bearer token;
// login is public.
func (h *Handler) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/user-service/login", h.login).Methods(http.MethodPost)

	protected := router.PathPrefix("/tracking-service").Subrouter()
	protected.Use(func(next http.Handler) http.Handler {
		return RequireAuth(h.auth, next)
	})
	protected.HandleFunc("/records", h.createRecord).Methods(http.MethodPost)
	protected.HandleFunc("/records", h.listRecords).Methods(http.MethodGet)
	protected.HandleFunc("/records/user/{username}", h.listUserRecords).Methods(http.MethodGet)
	protected.HandleFunc("/records/{id}", h.updateRecord).Methods(http.MethodPut)
	protected.HandleFunc("/routines", h.listRoutines).Methods(http.MethodGet)
	protected.HandleFunc("/routines", h.createRoutine).Methods(http.MethodPost)
	protected.HandleFunc("/routines/{id}", h.getRoutine).Methods(http.MethodGet)

	router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	return router
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type loginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	account, ok := h.repo.Authenticate(req.UserID, req.Password)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, domain.LoginResult{
			Authenticated: false,
			Message:       "invalid credentials",
		})
		return
	}

	token, err := IssueToken(account.ID, string(account.Role), h.auth)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, domain.LoginResult{
		Authenticated: true,
		Token:         token,
		User:          domain.LoginUser{UserID: account.ID},
	})
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateRecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	record := h.repo.CreateRecord(input)
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.repo.ListRecords())
}

func (h *Handler) listUserRecords(w http.ResponseWriter, r *http.Request) {
	userName := mux.Vars(r)["username"]
	writeJSON(w, http.StatusOK, h.repo.ListUserRecords(userName))
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var update domain.RecordUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	record, ok := h.repo.UpdateRecord(id, update)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) listRoutines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.repo.ListRoutines())
}

func (h *Handler) getRoutine(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	routine, ok := h.repo.GetRoutine(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "routine not found")
		return
	}
	writeJSON(w, http.StatusOK, routine)
}

func (h *Handler) createRoutine(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateRoutineInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	routine := h.repo.CreateRoutine(input)
	writeJSON(w, http.StatusCreated, routine)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
