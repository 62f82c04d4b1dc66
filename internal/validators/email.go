package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// EmailDomainChecker reports whether the domain of an address can plausibly
// receive mail: an MX record, or at least an address record.
type EmailDomainChecker struct {
	Resolver *net.Resolver
	Timeout  time.Duration
}

func (c EmailDomainChecker) Valid(email string) bool {
	domain, ok := emailDomain(email)
	if !ok {
		return false
	}

	resolver := c.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if mx, err := resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}

func emailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.ContainsAny(domain, " @") {
		return "", false
	}
	return domain, true
}

func IsEmailDomainValid(email string) bool {
	return EmailDomainChecker{}.Valid(email)
}
