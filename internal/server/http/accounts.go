package http

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/passwords"
	"github.com/dmitrijs2005/storefront/internal/server/services"
)

type signupRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	resultResponse
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

type forgotRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

type forgotResponse struct {
	resultResponse
	Username    string    `json:"username"`
	ResetTicket string    `json:"reset_ticket"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type resetRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *HTTPServer) securityQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"questions": passwords.SecurityQuestions})
}

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.accounts.Signup(r.Context(), services.SignupRequest{
		Username:         req.Username,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resultResponse{Message: res.Message, NextView: res.NextView})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.accounts.Login(r.Context(), services.LoginRequest{
		Session:  sessionID(r),
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		resultResponse: resultResponse{Message: res.Message, NextView: res.NextView},
		AccessToken:    res.AccessToken,
		ExpiresAt:      res.ExpiresAt,
		LastLogin:      res.LastLogin,
	})
}

func (s *HTTPServer) forgot(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.accounts.VerifyIdentity(r.Context(), services.VerifyRequest{
		Username:         req.Username,
		Email:            req.Email,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, forgotResponse{
		resultResponse: resultResponse{Message: res.Message, NextView: res.NextView},
		Username:       res.Username,
		ResetTicket:    res.ResetTicket,
		ExpiresAt:      res.ExpiresAt,
	})
}

func (s *HTTPServer) reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// the reset page may post the ticket it was opened with
	if req.Token == "" {
		req.Token = r.URL.Query().Get("token")
	}

	res, err := s.accounts.ResetPassword(r.Context(), services.ResetRequest{
		Ticket:          req.Token,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resultResponse{Message: res.Message, NextView: res.NextView})
}

func (s *HTTPServer) profile(w http.ResponseWriter, r *http.Request) {
	p, err := s.accounts.GetProfile(r.Context(), usernameFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.accounts.ChangePassword(r.Context(), services.ChangePasswordRequest{
		Username:        usernameFrom(r.Context()),
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resultResponse{Message: res.Message, NextView: res.NextView})
}
