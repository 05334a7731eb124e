package backend

import (
	"net/url"
	"strings"
)

// DeepLinkFunc turns a pairing URI into something a mobile wallet opens.
type DeepLinkFunc func(uri string) string

// RawDeepLink presents the pairing URI as is.
func RawDeepLink(uri string) string { return uri }

// TerraStationDeepLink wraps the URI in Station's dynamic link.
func TerraStationDeepLink(uri string) string {
	inner := "https://terra.money?action=wallet_connect&payload=" + encodeURIComponent(uri)
	return "https://terrastation.page.link/?link=" + encodeURIComponent(inner) +
		"&apn=money.terra.station&ibi=money.terra.station&isi=1548434735"
}

// LuncDashDeepLink builds the app scheme link; the app expects the payload
// encoded twice.
func LuncDashDeepLink(uri string) string {
	return "luncdash://wallet_connect?payload%3D" + encodeURIComponent(encodeURIComponent(uri))
}

func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
