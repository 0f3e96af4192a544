package handler

import (
	"net/http"

	"github.com/quillhq/quill/internal/service"
)

// ChallengeHeader carries the client's Turnstile response token.
const ChallengeHeader = "X-Turnstile-Token"

// LoginHandler exchanges the admin credential for a bearer token.
type LoginHandler struct {
	auth      *service.AuthService
	challenge *service.TurnstileVerifier
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(auth *service.AuthService, challenge *service.TurnstileVerifier) *LoginHandler {
	return &LoginHandler{auth: auth, challenge: challenge}
}

// tokenResponse is the response payload for a successful login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token authenticates the admin and returns a bearer token.
// POST /api/v1/login/token (form body: username, password)
//
// When a Turnstile secret is configured the challenge runs first,
// unconditionally, and a missing or failed challenge rejects the login
// before credentials are ever compared. Credential failures return a generic
// message that doesn't say which field was wrong.
func (h *LoginHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if h.challenge.Enabled() {
		token := r.Header.Get(ChallengeHeader)
		if err := h.challenge.Verify(r.Context(), token, clientIP(r)); err != nil {
			writeError(w, http.StatusBadRequest,
				"Verification failed. Please complete the challenge and try again.")
			return
		}
	}

	if !h.auth.VerifyCredentials(username, password) {
		writeError(w, http.StatusBadRequest, "Incorrect username or password")
		return
	}

	token, err := h.auth.IssueToken(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
