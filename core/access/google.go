package access

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/glimmer-tech/menagerie/core/logger"
	"github.com/golang-jwt/jwt/v4"
)

// GoogleCertsURL is the download url for Google's token signing certificates.
const GoogleCertsURL = "https://www.googleapis.com/oauth2/v1/certs"

// certsMaxAge is how long downloaded certificates are kept before a refresh
const certsMaxAge = 6 * time.Hour

// GoogleVerifierBuilder is a helper builder for GoogleVerifier
type GoogleVerifierBuilder struct {
	// ClientID is the OAuth2 client id; verified tokens must carry it as audience. Mandatory.
	ClientID string
	// CertsURL is the certificate download url, defaults to GoogleCertsURL
	CertsURL string
	// Issuers are the accepted token issuers, defaults to Google's
	Issuers []string
	// HTTPClient is used for certificate downloads, defaults to http.DefaultClient
	HTTPClient *http.Client
}

// GoogleVerifier validates Google-issued ID tokens. It downloads the
// well-known signing certificates and refreshes them when they become stale.
type GoogleVerifier struct {
	clientID   string
	certsURL   string
	issuers    []string
	httpClient *http.Client

	mutex   sync.RWMutex
	keys    map[string]interface{}
	fetched time.Time
}

// NewGoogleVerifier realizes the verifier from the builder.
func NewGoogleVerifier(gvb *GoogleVerifierBuilder) *GoogleVerifier {
	if gvb.ClientID == "" {
		panic("ClientID is missing")
	}
	v := &GoogleVerifier{
		clientID:   gvb.ClientID,
		certsURL:   gvb.CertsURL,
		issuers:    gvb.Issuers,
		httpClient: gvb.HTTPClient,
	}
	if v.certsURL == "" {
		v.certsURL = GoogleCertsURL
	}
	if len(v.issuers) == 0 {
		v.issuers = []string{"accounts.google.com", "https://accounts.google.com"}
	}
	if v.httpClient == nil {
		v.httpClient = http.DefaultClient
	}
	return v
}

type googleClaims struct {
	EMail string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Verify validates the token signature, issuer and audience, and returns the
// verified claims.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	keys, err := v.wellKnownKeys(ctx)
	if err != nil {
		return nil, err
	}

	keyLookup := func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		key, ok := keys[kid]
		if ok {
			return key, nil
		}
		logger.FromContext(ctx).Warningf("have %d well known keys, but not this one", len(keys))
		return nil, errors.New("cannot verify token")
	}

	claims := googleClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, keyLookup)
	if err != nil || !parsed.Valid {
		return nil, errors.New("cannot verify token")
	}
	issuerOK := false
	for _, issuer := range v.issuers {
		issuerOK = issuerOK || claims.Issuer == issuer
	}
	if !issuerOK {
		return nil, fmt.Errorf("unexpected issuer %s", claims.Issuer)
	}
	audienceOK := false
	for _, audience := range claims.Audience {
		audienceOK = audienceOK || audience == v.clientID
	}
	if !audienceOK {
		return nil, errors.New("token audience does not match client id")
	}
	if claims.Subject == "" {
		return nil, errors.New("token lacks a subject")
	}
	return &Claims{
		Subject: claims.Subject,
		Email:   claims.EMail,
		Name:    claims.Name,
	}, nil
}

// wellKnownKeys returns the cached signing keys, downloading fresh
// certificates when the cache is stale.
func (v *GoogleVerifier) wellKnownKeys(ctx context.Context) (map[string]interface{}, error) {
	v.mutex.RLock()
	keys := v.keys
	fetched := v.fetched
	v.mutex.RUnlock()
	if keys != nil && time.Since(fetched) < certsMaxAge {
		return keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := v.httpClient.Do(req)
	if err != nil {
		// keep serving stale keys rather than failing verification outright
		if keys != nil {
			return keys, nil
		}
		return nil, fmt.Errorf("cannot download certificates: %w", err)
	}
	defer res.Body.Close()

	wellKnownCertificates := map[string]string{}
	decoder := json.NewDecoder(res.Body)
	if err := decoder.Decode(&wellKnownCertificates); err != nil {
		return nil, fmt.Errorf("cannot decode certificates: %w", err)
	}

	rlog := logger.FromContext(ctx)
	keys = map[string]interface{}{}
	for kid, cert := range wellKnownCertificates {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cert))
		if err != nil {
			rlog.WithError(err).Warningln("certificate error for kid", kid)
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return nil, errors.New("no usable certificates")
	}

	v.mutex.Lock()
	v.keys = keys
	v.fetched = time.Now()
	v.mutex.Unlock()
	return keys, nil
}
