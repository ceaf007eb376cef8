package domain

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

const (
	// FaviconEndpoint is the third-party favicon service.
	FaviconEndpoint = "https://www.google.com/s2/favicons"
	// FaviconSize is the requested icon edge in pixels.
	FaviconSize = 256
)

// FaviconURL maps a domain to its icon URL. Pure function of domain.
func FaviconURL(domain string) string {
	q := url.Values{}
	q.Set("domain", domain)
	q.Set("sz", strconv.Itoa(FaviconSize))
	return FaviconEndpoint + "?" + q.Encode()
}

// NormalizeDomain turns loosely formatted host text ("https://www.Discord.com/app",
// "telegram.org.", `"vk.com"`) into a bare lower-case hostname.
// It returns "" when nothing that looks like a DNS name remains.
func NormalizeDomain(raw string) string {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		return ""
	}
	s := strings.Trim(fields[0], "\"'`")

	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimSuffix(s, ".")

	if !strings.Contains(s, ".") || !hostnameChars(s) {
		return ""
	}
	if _, ok := dns.IsDomainName(s); !ok {
		return ""
	}
	return s
}

// hostnameChars accepts LDH labels only.
func hostnameChars(s string) bool {
	for _, label := range strings.Split(s, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			default:
				return false
			}
		}
	}
	return true
}
