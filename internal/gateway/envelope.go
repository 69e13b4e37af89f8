package gateway

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/ayo6706/terminal-country-switch/internal/models"
)

const (
	vendorNamespace = "http://www.chargeanywhere.com/"
	soapAction      = vendorNamespace + "Create_Update_MerchantInfo"
)

// Values are substituted verbatim; callers must not pass XML markup.
var merchantUpdateTemplate = template.Must(template.New("merchant_update").Parse(`<?xml version="1.0" encoding="utf-8"?>
<soap12:Envelope xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
    <soap12:Body>
        <Create_Update_MerchantInfo xmlns="http://www.chargeanywhere.com/">
            <channelCredentials>
                <ChannelName>{{.ChannelName}}</ChannelName>
                <UserName>{{.Username}}</UserName>
                <Password>{{.Password}}</Password>
            </channelCredentials>
            <merchantInfo xsi:type="ChargeAnyWhereMerchantInfo">
                <MerchantId>{{.MerchantID}}</MerchantId>
                <IndustryTypeId>0</IndustryTypeId>
                <DuplicateCheck>0</DuplicateCheck>
                <CountryCode>{{.CountryCode}}</CountryCode>
                <CurrencyCode>{{.CountryCode}}</CurrencyCode>
                <SettlementOptions>2</SettlementOptions>
                <AutoSettle>1</AutoSettle>
                <SettlementTime>0</SettlementTime>
                <SupportsPinDebit>1</SupportsPinDebit>
                <EMV_App_Select_Opt>3</EMV_App_Select_Opt>
                <AutoSettleAuthOnly>0</AutoSettleAuthOnly>
            </merchantInfo>
        </Create_Update_MerchantInfo>
    </soap12:Body>
</soap12:Envelope>`))

type merchantUpdateFields struct {
	models.Credentials
	MerchantID  string
	CountryCode string
}

// BuildMerchantUpdateEnvelope renders the Create_Update_MerchantInfo SOAP 1.2
// envelope. The country code is used for both CountryCode and CurrencyCode.
func BuildMerchantUpdateEnvelope(creds models.Credentials, merchantID, countryCode string) ([]byte, error) {
	var missing []string
	if creds.ChannelName == "" {
		missing = append(missing, "channel name")
	}
	if creds.Username == "" {
		missing = append(missing, "username")
	}
	if creds.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing credentials: %s", domain.ErrConfiguration, strings.Join(missing, ", "))
	}

	var buf bytes.Buffer
	if err := merchantUpdateTemplate.Execute(&buf, merchantUpdateFields{
		Credentials: creds,
		MerchantID:  merchantID,
		CountryCode: countryCode,
	}); err != nil {
		return nil, fmt.Errorf("render merchant update envelope: %w", err)
	}
	return buf.Bytes(), nil
}
