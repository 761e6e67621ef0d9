/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"github.com/shopspring/decimal"
)

// SignUpRequest is the email sign-up form
type SignUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptedTerms   bool   `json:"acceptedTerms"`
}

// SignInRequest is the email sign-in form
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProviderSignInRequest carries a federated provider assertion
type ProviderSignInRequest struct {
	Assertion string `json:"assertion" validate:"required"`
}

// AuthResponse is returned by every successful sign-in
type AuthResponse struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
	Profile  *Profile `json:"profile,omitempty"`
}

// NavigateRequest switches the dashboard section
type NavigateRequest struct {
	Section string `json:"section" validate:"required,max=32"`
}

// SendRequest is the send-crypto form
type SendRequest struct {
	Crypto    string          `json:"crypto" validate:"required,max=10"`
	Amount    decimal.Decimal `json:"amount"`
	Recipient string          `json:"recipient" validate:"max=128"`
}

// ConnectWalletRequest connects an external wallet by type
type ConnectWalletRequest struct {
	Type string `json:"type" validate:"required,oneof=MetaMask"`
}

// ImportWalletRequest imports a wallet from a mnemonic phrase
type ImportWalletRequest struct {
	Mnemonic string `json:"mnemonic"`
}

// PrimeWalletRequest connects a Prime custody wallet for a symbol
type PrimeWalletRequest struct {
	Symbol string `json:"symbol" validate:"required,alphanum,max=10"`
}

// ProfileEditRequest updates profile fields
type ProfileEditRequest struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
	Country     string `json:"country" validate:"max=64"`
}

// ChangePasswordRequest changes the account password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePinRequest sets the transaction PIN
type ChangePinRequest struct {
	Pin        string `json:"pin"`
	ConfirmPin string `json:"confirmPin"`
}

// OverviewResponse is the rendered overview section
type OverviewResponse struct {
	TotalBalance decimal.Decimal `json:"totalBalance"`
	DailyChange  decimal.Decimal `json:"dailyChange"`
	ChangeLabel  string          `json:"changeLabel"`
	Assets       []Asset         `json:"assets"`
}

// WalletView is a wallet rendered for display
type WalletView struct {
	Wallet
	DisplayAddress string `json:"displayAddress"`
}

// WalletSectionResponse is the rendered wallet section
type WalletSectionResponse struct {
	Empty   bool         `json:"empty"`
	Wallets []WalletView `json:"wallets"`
}

// NotificationListResponse is the bell-icon list
type NotificationListResponse struct {
	Unread        int            `json:"unread"`
	Notifications []Notification `json:"notifications"`
}

// SectionView is the data behind the active dashboard section. Only the
// field matching Section is set.
type SectionView struct {
	Section      string                 `json:"section"`
	Overview     *OverviewResponse      `json:"overview,omitempty"`
	Wallets      *WalletSectionResponse `json:"wallets,omitempty"`
	Transactions []Transaction          `json:"transactions,omitempty"`
	Profile      *Profile               `json:"profile,omitempty"`
	Settings     *Settings              `json:"settings,omitempty"`
}

// ReceiveResponse is the receive address for one asset
type ReceiveResponse struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
