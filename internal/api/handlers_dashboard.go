package api

import (
	"errors"
	"net/http"

	"safvacut-wallet-go/internal/dashboard"
	"safvacut-wallet-go/internal/models"

	"github.com/gin-gonic/gin"
)

func handleNavigate(c *gin.Context) {
	var req models.NavigateRequest
	if !bind(c, &req) {
		return
	}
	view, err := sessionFrom(c).Controller.Navigate(c.Request.Context(), dashboard.Section(req.Section))
	if err != nil {
		if errors.Is(err, dashboard.ErrUnknownSection) {
			respondError(c, http.StatusBadRequest, "Unknown section "+req.Section)
			return
		}
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "ok", view)
}

func handleOverview(c *gin.Context) {
	respondJSON(c, http.StatusOK, "ok", sessionFrom(c).Controller.Overview())
}

func handleRefresh(c *gin.Context) {
	sess := sessionFrom(c)
	if err := sess.Controller.Refresh(c.Request.Context()); err != nil {
		respondFailure(c, err)
		return
	}
	if err := sess.Notifications.Reload(c.Request.Context()); err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "Dashboard refreshed", sess.Controller.Overview())
}

func handleListWallets(c *gin.Context) {
	respondJSON(c, http.StatusOK, "ok", sessionFrom(c).Controller.Wallets())
}

func handleConnectWallet(c *gin.Context) {
	var req models.ConnectWalletRequest
	if !bind(c, &req) {
		return
	}
	w, err := sessionFrom(c).Controller.ConnectWallet(c.Request.Context(), req.Type)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, "Wallet connected successfully", w)
}

func handleImportWallet(c *gin.Context) {
	var req models.ImportWalletRequest
	if !bind(c, &req) {
		return
	}
	w, err := sessionFrom(c).Controller.ImportWallet(c.Request.Context(), req.Mnemonic)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, "Wallet imported successfully", w)
}

func handlePrimeWallet(c *gin.Context) {
	var req models.PrimeWalletRequest
	if !bind(c, &req) {
		return
	}
	w, err := sessionFrom(c).Controller.ConnectPrimeWallet(c.Request.Context(), req.Symbol)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, "Wallet connected successfully", w)
}

func handleSend(c *gin.Context) {
	var req models.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, dashboard.MsgInvalidSend)
		return
	}
	tx, err := sessionFrom(c).Controller.SendTransaction(c.Request.Context(), req)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, "Transaction sent successfully", tx)
}

func handleReceive(c *gin.Context) {
	r, err := sessionFrom(c).Controller.ReceiveAddress(c.Param("symbol"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "ok", r)
}

func handleReconcile(c *gin.Context) {
	changed, err := sessionFrom(c).Controller.ReconcileAsset(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "ok", gin.H{"changed": changed})
}
