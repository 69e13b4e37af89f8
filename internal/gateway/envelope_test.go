package gateway

import (
	"strings"
	"testing"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/ayo6706/terminal-country-switch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = models.Credentials{ChannelName: "chan", Username: "user", Password: "pass"}

func TestBuildMerchantUpdateEnvelopeCountries(t *testing.T) {
	for _, c := range domain.Countries() {
		t.Run(c.Key, func(t *testing.T) {
			body, err := BuildMerchantUpdateEnvelope(testCreds, "M-1001", c.Code)
			require.NoError(t, err)

			doc := string(body)
			assert.Contains(t, doc, "<MerchantId>M-1001</MerchantId>")
			assert.Contains(t, doc, "<CountryCode>"+c.Code+"</CountryCode>")
			assert.Contains(t, doc, "<CurrencyCode>"+c.Code+"</CurrencyCode>")
			assert.Contains(t, doc, "<ChannelName>chan</ChannelName>")
			assert.Contains(t, doc, "<UserName>user</UserName>")
			assert.Contains(t, doc, "<Password>pass</Password>")
			assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="utf-8"?>`))
		})
	}
}

func TestBuildMerchantUpdateEnvelopeDeterministic(t *testing.T) {
	first, err := BuildMerchantUpdateEnvelope(testCreds, "M-1", "124")
	require.NoError(t, err)
	second, err := BuildMerchantUpdateEnvelope(testCreds, "M-1", "124")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildMerchantUpdateEnvelopeIsWellFormed(t *testing.T) {
	body, err := BuildMerchantUpdateEnvelope(testCreds, "M-1", "036")
	require.NoError(t, err)

	_, _, err = scanResponse(body)
	require.NoError(t, err)
}

func TestBuildMerchantUpdateEnvelopeMissingCredentials(t *testing.T) {
	cases := []struct {
		name  string
		creds models.Credentials
		want  string
	}{
		{name: "channel", creds: models.Credentials{Username: "u", Password: "p"}, want: "channel name"},
		{name: "username", creds: models.Credentials{ChannelName: "c", Password: "p"}, want: "username"},
		{name: "password", creds: models.Credentials{ChannelName: "c", Username: "u"}, want: "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildMerchantUpdateEnvelope(tc.creds, "M-1", "840")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
