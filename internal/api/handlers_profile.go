package api

import (
	"io"
	"net/http"

	"safvacut-wallet-go/internal/blob"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/profile"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func handleGetProfile(c *gin.Context) {
	respondJSON(c, http.StatusOK, "ok", sessionFrom(c).Controller.Profile())
}

func handleEditProfile(c *gin.Context) {
	var req models.ProfileEditRequest
	if !bind(c, &req) {
		return
	}
	sess := sessionFrom(c)
	p, err := appFrom(c).Profiles.EditProfile(c.Request.Context(), sess.Uid, models.ProfileEdit{
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
	})
	if err != nil {
		respondFailure(c, err)
		return
	}
	refreshDashboard(c)
	respondJSON(c, http.StatusOK, "Profile updated successfully", p)
}

func handleUploadAvatar(c *gin.Context) {
	header, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, profile.MsgNotAnImage)
		return
	}
	if header.Size > blob.MaxAvatarSize {
		respondError(c, http.StatusBadRequest, profile.MsgImageTooLarge)
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, profile.MsgNotAnImage)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, blob.MaxAvatarSize+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid upload")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	url, err := appFrom(c).Profiles.UploadAvatar(c.Request.Context(), sessionFrom(c).Uid, contentType, data)
	if err != nil {
		respondFailure(c, err)
		return
	}
	refreshDashboard(c)
	respondJSON(c, http.StatusOK, "Avatar updated successfully", gin.H{"photoURL": url})
}

func handleChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !bind(c, &req) {
		return
	}
	err := appFrom(c).Profiles.ChangePassword(c.Request.Context(), sessionFrom(c).Uid,
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "Password changed successfully", nil)
}

func handleChangePin(c *gin.Context) {
	var req models.ChangePinRequest
	if !bind(c, &req) {
		return
	}
	if err := appFrom(c).Profiles.ChangePin(c.Request.Context(), sessionFrom(c).Uid, req.Pin, req.ConfirmPin); err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "PIN updated successfully", nil)
}

func handleVerifyPin(c *gin.Context) {
	var req models.ChangePinRequest
	if !bind(c, &req) {
		return
	}
	ok, err := appFrom(c).Profiles.VerifyPin(c.Request.Context(), sessionFrom(c).Uid, req.Pin)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "ok", gin.H{"valid": ok})
}

func handleGetSettings(c *gin.Context) {
	s, err := appFrom(c).Profiles.Settings(c.Request.Context(), sessionFrom(c).Uid)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "ok", s)
}

func handleGetNotificationSettings(c *gin.Context) {
	prefs, err := appFrom(c).Profiles.LoadNotificationSettings(c.Request.Context(), sessionFrom(c).Uid)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "ok", prefs)
}

func handleSaveNotificationSettings(c *gin.Context) {
	var prefs models.NotificationPreferences
	if !bind(c, &prefs) {
		return
	}
	if err := appFrom(c).Profiles.SaveNotificationSettings(c.Request.Context(), sessionFrom(c).Uid, prefs); err != nil {
		respondFailure(c, err)
		return
	}
	refreshDashboard(c)
	respondJSON(c, http.StatusOK, "Notification settings saved", prefs)
}

// refreshDashboard reloads the controller after a write made outside it.
// A failed reload only leaves the dashboard stale.
func refreshDashboard(c *gin.Context) {
	sess := sessionFrom(c)
	if err := sess.Controller.Refresh(c.Request.Context()); err != nil {
		zap.L().Warn("Dashboard refresh failed", zap.String("uid", sess.Uid), zap.Error(err))
	}
}
