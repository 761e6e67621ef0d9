package api

import (
	"net/http"
	"strings"

	"safvacut-wallet-go/internal/apperr"
	"safvacut-wallet-go/internal/auth"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/validation"

	"github.com/gin-gonic/gin"
)

// bind decodes the JSON body and runs its validate tags.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validation.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, strings.Join(validation.FormatValidationError(err), "; "))
		return false
	}
	return true
}

func handleSignUp(c *gin.Context) {
	var req models.SignUpRequest
	if !bind(c, &req) {
		return
	}
	app := appFrom(c)
	result, err := app.Auth.SignUpWithEmail(c.Request.Context(), auth.SignUpInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AcceptedTerms:   req.AcceptedTerms,
	})
	if err != nil {
		respondFailure(c, err)
		return
	}
	completeSignIn(c, app, result, http.StatusCreated, "Account created successfully")
}

func handleSignIn(c *gin.Context) {
	var req models.SignInRequest
	if !bind(c, &req) {
		return
	}
	app := appFrom(c)
	result, err := app.Auth.SignInWithEmail(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondFailure(c, err)
		return
	}
	completeSignIn(c, app, result, http.StatusOK, "Signed in successfully")
}

func handleProviderSignIn(c *gin.Context) {
	var req models.ProviderSignInRequest
	if !bind(c, &req) {
		return
	}
	app := appFrom(c)
	result, err := app.Auth.SignInWithProvider(c.Request.Context(), c.Param("provider"), req.Assertion)
	if err != nil {
		respondFailure(c, err)
		return
	}
	completeSignIn(c, app, result, http.StatusOK, "Signed in successfully")
}

// completeSignIn opens the dashboard session so the profile and seed data
// exist before the client navigates.
func completeSignIn(c *gin.Context, app *App, result *auth.Result, status int, message string) {
	sess, err := app.Sessions.Open(c.Request.Context(), result.Identity, clientInfo(c))
	if err != nil {
		respondFailure(c, apperr.NewFailure("api.completeSignIn", "Failed to load your dashboard", err))
		return
	}
	respondJSON(c, status, message, models.AuthResponse{
		Token:    result.Token,
		Identity: result.Identity,
		Profile:  sess.Profile(),
	})
}

func handleSignOut(c *gin.Context) {
	app := appFrom(c)
	uid := sessionFrom(c).Uid
	if err := app.Auth.SignOut(c.Request.Context(), uid); err != nil {
		respondFailure(c, err)
		return
	}
	app.Sessions.Close(c.Request.Context(), uid)
	respondJSON(c, http.StatusOK, "Signed out", nil)
}
