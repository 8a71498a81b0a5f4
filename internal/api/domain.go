package api

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// DomainOf returns the bare host of rawURL with any "www." prefix removed.
// Internationalized hosts are shown in Unicode. Anything that does not parse
// as an absolute URL is returned unchanged.
func DomainOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return rawURL
	}
	host := u.Hostname()
	if host == "" {
		return rawURL
	}
	if display, err := idna.Display.ToUnicode(host); err == nil {
		host = display
	}
	return strings.TrimPrefix(host, "www.")
}
