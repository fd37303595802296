package oauth

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// NewProviderTokenSource builds a token source for the scheduling
// provider's client-credentials grant. Tokens are cached until expiry and
// refreshed on demand, so an expired token never surfaces as a 401 loop.
func NewProviderTokenSource(ctx context.Context, baseURL, clientID, clientSecret string) oauth2.TokenSource {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     strings.TrimRight(baseURL, "/") + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return oauth2.ReuseTokenSource(nil, config.TokenSource(ctx))
}
