package types

// TunnelListResponse is the body of the local tunnel agent's /api/tunnels endpoint.
type TunnelListResponse struct {
	Tunnels []TunnelInfo `json:"tunnels"`
}

// TunnelInfo describes one running tunnel.
type TunnelInfo struct {
	Name      string `json:"name"`
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}
