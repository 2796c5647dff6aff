package signal

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// OriginChecker allows websocket upgrades from a fixed set of origins.
// An empty set allows any origin; "*" does the same explicitly.
type OriginChecker struct {
	allowed map[string]struct{}
	any     bool
}

func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{allowed: make(map[string]struct{})}
	for _, o := range origins {
		o = normalizeOrigin(o)
		if o == "" {
			continue
		}
		if o == "*" {
			oc.any = true
			continue
		}
		oc.allowed[o] = struct{}{}
	}
	if len(oc.allowed) == 0 {
		oc.any = true
	}
	return oc
}

func normalizeOrigin(o string) string {
	o = strings.TrimSpace(strings.ToLower(o))
	return strings.TrimRight(o, "/")
}

func (oc *OriginChecker) Check(r *http.Request) bool {
	if oc.any {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin.
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	_, ok := oc.allowed[normalizeOrigin(u.Scheme+"://"+u.Host)]
	if !ok {
		log.Warn().Str("module", "signal").Str("origin", origin).Msg("origin rejected")
	}
	return ok
}
