// Package rtc turns configured STUN/TURN servers into the ICE configuration
// handed to browser peers. Media never touches this process.
package rtc

import (
	"fmt"

	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// ICEServer is one configured STUN/TURN entry.
type ICEServer struct {
	URLs       []string `mapstructure:"urls" json:"urls"`
	Username   string   `mapstructure:"username" json:"username,omitempty"`
	Credential string   `mapstructure:"credential" json:"credential,omitempty"`
}

func DefaultICEServers() []ICEServer {
	return []ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}}
}

// Configuration validates every URL and builds the peer configuration.
// TURN entries must carry credentials.
func Configuration(servers []ICEServer) (webrtc.Configuration, error) {
	if len(servers) == 0 {
		servers = DefaultICEServers()
	}
	out := webrtc.Configuration{}
	for _, s := range servers {
		for _, raw := range s.URLs {
			u, err := stun.ParseURI(raw)
			if err != nil {
				return webrtc.Configuration{}, fmt.Errorf("ice server %q: %w", raw, err)
			}
			if (u.Scheme == stun.SchemeTypeTURN || u.Scheme == stun.SchemeTypeTURNS) && (s.Username == "" || s.Credential == "") {
				return webrtc.Configuration{}, fmt.Errorf("ice server %q: turn needs username and credential", raw)
			}
		}
		srv := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			srv.Username = s.Username
			srv.Credential = s.Credential
		}
		out.ICEServers = append(out.ICEServers, srv)
	}
	log.Debug().Str("module", "rtc").Int("servers", len(out.ICEServers)).Msg("ice configuration ready")
	return out, nil
}
