package googleauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func fakeValidator(accept string, claims map[string]interface{}) (validateFunc, *[]string) {
	var tried []string
	return func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		tried = append(tried, audience)
		if token != "valid" || audience != accept {
			return nil, errors.New("idtoken: audience provided does not match aud claim in the JWT")
		}
		return &idtoken.Payload{Subject: "g-7", Audience: audience, Claims: claims}, nil
	}, &tried
}

func TestIDTokenVerifier_AcceptsAnyConfiguredAudience(t *testing.T) {
	validate, tried := fakeValidator("android-client", map[string]interface{}{
		"email":          "ada@example.com",
		"email_verified": true,
		"name":           "Ada",
		"picture":        "https://example.com/a.png",
	})
	v := &IDTokenVerifier{audiences: []string{"web-client", "android-client"}, validate: validate}

	id, err := v.Verify(context.Background(), "valid")
	require.NoError(t, err)
	assert.Equal(t, "g-7", id.Subject)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, "Ada", id.Name)
	assert.Equal(t, "https://example.com/a.png", id.Picture)
	assert.Equal(t, []string{"web-client", "android-client"}, *tried)
}

func TestIDTokenVerifier_RejectsUnknownToken(t *testing.T) {
	validate, _ := fakeValidator("android-client", nil)
	v := &IDTokenVerifier{audiences: []string{"android-client"}, validate: validate}

	_, err := v.Verify(context.Background(), "forged")
	assert.Error(t, err)
}

func TestIDTokenVerifier_RejectsUnverifiedEmail(t *testing.T) {
	validate, _ := fakeValidator("android-client", map[string]interface{}{
		"email":          "ada@example.com",
		"email_verified": false,
	})
	v := &IDTokenVerifier{audiences: []string{"android-client"}, validate: validate}

	_, err := v.Verify(context.Background(), "valid")
	assert.Error(t, err)
}

func TestIDTokenVerifier_RequiresAudiences(t *testing.T) {
	v := &IDTokenVerifier{validate: func(context.Context, string, string) (*idtoken.Payload, error) {
		t.Fatal("validate must not be called without audiences")
		return nil, nil
	}}

	_, err := v.Verify(context.Background(), "valid")
	assert.ErrorIs(t, err, ErrNoAudiences)
}
