package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"skincare-backend/pkg/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectID = "skincare-test"

func firebaseClaims(uid string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": uid,
		"iss": "https://securetoken.google.com/" + projectID,
		"aud": projectID,
		"iat": time.Now().Add(-time.Minute).Unix(),
		"exp": exp.Unix(),
	}
}

func TestVerifier_HS256(t *testing.T) {
	v := auth.NewVerifier(nil, auth.VerifierConfig{ProjectID: projectID, HMACSecret: "dev-secret"})

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	t.Run("valid token yields uid", func(t *testing.T) {
		uid, err := v.Verify(context.Background(), sign(firebaseClaims("user-1", time.Now().Add(time.Hour)), "dev-secret"))
		require.NoError(t, err)
		assert.Equal(t, "user-1", uid)
	})

	t.Run("expired token", func(t *testing.T) {
		_, err := v.Verify(context.Background(), sign(firebaseClaims("user-1", time.Now().Add(-time.Hour)), "dev-secret"))
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(context.Background(), sign(firebaseClaims("user-1", time.Now().Add(time.Hour)), "other"))
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := firebaseClaims("user-1", time.Now().Add(time.Hour))
		claims["aud"] = "another-project"
		_, err := v.Verify(context.Background(), sign(claims, "dev-secret"))
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("missing exp", func(t *testing.T) {
		claims := firebaseClaims("user-1", time.Now())
		delete(claims, "exp")
		_, err := v.Verify(context.Background(), sign(claims, "dev-secret"))
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := v.Verify(context.Background(), sign(firebaseClaims("", time.Now().Add(time.Hour)), "dev-secret"))
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestVerifier_HS256WithoutSecretIsRejected(t *testing.T) {
	v := auth.NewVerifier(nil, auth.VerifierConfig{ProjectID: projectID})
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, firebaseClaims("user-1", time.Now().Add(time.Hour))).SignedString([]byte("x"))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

// jwksServer serves one RSA key under kid-1 and counts fetches.
func jwksServer(t *testing.T) (*rsa.PrivateKey, string, *atomic.Int32) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := auth.JWKS{Keys: []auth.JSONWebKey{{
		Kid: "kid-1",
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}}}
	fetches := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(srv.Close)
	return key, srv.URL, fetches
}

func signRS256(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifier_RS256ViaJWKS(t *testing.T) {
	key, url, fetches := jwksServer(t)
	v := auth.NewVerifier(auth.NewProvider(url), auth.VerifierConfig{ProjectID: projectID})

	signed := signRS256(t, key, "kid-1", firebaseClaims("user-rsa", time.Now().Add(time.Hour)))
	uid, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "user-rsa", uid)

	_, err = v.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load(), "keys are cached between verifications")

	_, err = v.Verify(context.Background(), signRS256(t, key, "unknown", firebaseClaims("user-rsa", time.Now().Add(time.Hour))))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifier_RS256OtherProjectRejected(t *testing.T) {
	key, url, _ := jwksServer(t)
	v := auth.NewVerifier(auth.NewProvider(url), auth.VerifierConfig{ProjectID: projectID})

	claims := firebaseClaims("intruder", time.Now().Add(time.Hour))
	claims["aud"] = "someone-elses-app"
	claims["iss"] = "https://securetoken.google.com/someone-elses-app"

	_, err := v.Verify(context.Background(), signRS256(t, key, "kid-1", claims))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifier_RS256WithoutProjectIDRejected(t *testing.T) {
	key, url, _ := jwksServer(t)
	v := auth.NewVerifier(auth.NewProvider(url), auth.VerifierConfig{})

	_, err := v.Verify(context.Background(), signRS256(t, key, "kid-1", firebaseClaims("user-rsa", time.Now().Add(time.Hour))))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestProvider_FetchFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := auth.NewProvider(srv.URL).Key(context.Background(), "kid-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestJSONWebKey_PublicKey(t *testing.T) {
	_, err := auth.JSONWebKey{Kid: "k", N: "!!", E: "AQAB"}.PublicKey()
	assert.Error(t, err)

	_, err = auth.JSONWebKey{Kid: "k", N: "", E: "AQAB"}.PublicKey()
	assert.Error(t, err)

	pub, err := auth.JSONWebKey{Kid: "k", N: "AQAB", E: "AQAB"}.PublicKey()
	require.NoError(t, err)
	assert.Equal(t, 65537, pub.E)
}
