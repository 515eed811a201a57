// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

type clientIPKey struct{}

// ProxyTrust decides which forwarding headers are believed.
// A nil or empty ProxyTrust trusts no one, so the TCP peer is the client.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

func NewProxyTrust(prefixes []netip.Prefix) *ProxyTrust {
	return &ProxyTrust{prefixes: prefixes}
}

func (pt *ProxyTrust) trusted(addr netip.Addr) bool {
	if pt == nil || !addr.IsValid() {
		return false
	}
	addr = addr.Unmap()
	for _, p := range pt.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP resolves the address votes are hashed and rate limited under.
// Forwarding headers only count when the peer is a trusted proxy. The
// X-Forwarded-For chain is walked from the right, skipping trusted hops,
// so the answer is the address the outermost trusted proxy actually saw.
func (pt *ProxyTrust) ClientIP(r *http.Request) string {
	peer := peerIP(r.RemoteAddr)
	peerAddr, err := netip.ParseAddr(peer)
	if err != nil || !pt.trusted(peerAddr) {
		return peer
	}

	hops := forwardedHops(r.Header.Values("X-Forwarded-For"))
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(hops[i])
		if err != nil {
			// Garbage in the chain; everything left of it is client-controlled
			return peer
		}
		if !pt.trusted(addr) {
			return addr.Unmap().String()
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.Unmap().String()
		}
	}
	return peer
}

// Resolve stores the client IP on the request context for GetClientIP
func (pt *ProxyTrust) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientIPKey{}, pt.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP returns the IP chosen by Resolve. Requests that never passed
// through Resolve fall back to the TCP peer; raw headers are never read here.
func GetClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return peerIP(r.RemoteAddr)
}

func peerIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func forwardedHops(values []string) []string {
	var hops []string
	for _, v := range values {
		for _, hop := range strings.Split(v, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	return hops
}
