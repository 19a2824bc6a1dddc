package request

import "strings"

const (
	ClientWeb    = "web"
	ClientMobile = "mobile"
)

// ResolveClientType decides where tokens should live for this caller.
// An explicit X-Client-Type header wins; otherwise fall back to a
// User-Agent sniff. Browsers get cookie-based tokens, everything else
// receives them in the response body.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case ClientWeb:
		return ClientWeb
	case ClientMobile:
		return ClientMobile
	}

	if strings.Contains(userAgent, "Mozilla") {
		return ClientWeb
	}
	return ClientMobile
}

func IsWebClient(clientType string) bool {
	return clientType == ClientWeb
}
