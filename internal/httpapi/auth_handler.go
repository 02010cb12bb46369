package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/veldt/go_storefront/internal/auth"
	"github.com/veldt/go_storefront/internal/session"
)

type AuthHandler struct {
	verifier *auth.Verifier
	issuer   *auth.TokenIssuer
	sessions *session.Manager
}

func NewAuthHandler(verifier *auth.Verifier, issuer *auth.TokenIssuer, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		issuer:   issuer,
		sessions: sessions,
	}
}

type SignupRequestDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponseDTO struct {
	Message   string `json:"message"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Token     string `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.verifier.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.Password); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "Signed Up!"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	account, err := h.verifier.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s, err := h.sessions.Start(r.Context(), account)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	token, err := h.issuer.Issue(account.Email, s.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponseDTO{
		Message:   "Logged In",
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Token:     token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	h.sessions.End(s.ID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged Out"})
}
