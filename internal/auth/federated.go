package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
	ProviderGithub = "github"
	ProviderApple  = "apple"
)

// FederatedProviders are the popup sign-in providers the wallet accepts.
var FederatedProviders = []string{ProviderGoogle, ProviderGithub, ProviderApple}

// FederatedClaims is the identity asserted by an external provider.
type FederatedClaims struct {
	Provider      string
	Subject       string
	Email         string
	DisplayName   string
	PhotoURL      string
	EmailVerified bool
}

// AssertionVerifier checks HS256 assertions signed with a per-provider
// secret. The assertion issuer must equal the provider id.
type AssertionVerifier struct {
	secrets map[string][]byte
}

func NewAssertionVerifier(secrets map[string]string) *AssertionVerifier {
	v := &AssertionVerifier{secrets: make(map[string][]byte)}
	for _, id := range FederatedProviders {
		if s := secrets[id]; s != "" {
			v.secrets[id] = []byte(s)
		}
	}
	return v
}

func (v *AssertionVerifier) Verify(providerId, assertion string) (*FederatedClaims, error) {
	secret, ok := v.secrets[providerId]
	if !ok {
		return nil, newProviderError(CodeOperationNotAllowed, "Sign-in provider "+providerId+" is not enabled")
	}
	if strings.TrimSpace(assertion) == "" {
		return nil, newProviderError(CodePopupClosedByUser, "")
	}

	token, err := jwt.Parse(assertion, func(token *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(providerId),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, newProviderError(CodeInvalidCredential, "The sign-in assertion has expired")
		}
		return nil, newProviderError(CodeInvalidCredential, "The sign-in assertion is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, newProviderError(CodeInvalidCredential, "The sign-in assertion is invalid")
	}

	sub, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	if sub == "" || !IsValidEmail(email) {
		return nil, newProviderError(CodeInvalidEmail, "")
	}

	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	verified, _ := claims["email_verified"].(bool)

	return &FederatedClaims{
		Provider:      providerId,
		Subject:       sub,
		Email:         email,
		DisplayName:   name,
		PhotoURL:      picture,
		EmailVerified: verified,
	}, nil
}
