package tool

import (
	"fmt"
	"net"
	"net/url"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// SelfNetworkInfo is a usable local IPv4 address.
type SelfNetworkInfo struct {
	InterfaceName string `json:"interface_name"`
	IPAddress     string `json:"ip_address"`
}

// RejectUnsupportNetworkInterface filters interfaces guests' phones cannot reach.
func RejectUnsupportNetworkInterface(iface *net.Interface) bool {
	if iface.Flags&net.FlagUp == 0 {
		return true
	}
	if iface.Flags&net.FlagLoopback != 0 {
		return true
	}
	if iface.Flags&net.FlagPointToPoint != 0 {
		return true // utun / tun / vpn
	}
	return false
}

// GetSelfNetworkInfos returns all non-loopback IPv4 addresses of usable interfaces.
func GetSelfNetworkInfos() []SelfNetworkInfo {
	var result []SelfNetworkInfo

	interfaces, err := net.Interfaces()
	if err != nil {
		DefaultLogger.Errorf("Failed to get network interfaces: %v", err)
		return result
	}

	for _, iface := range interfaces {
		if RejectUnsupportNetworkInterface(&iface) {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipnet.IP.To4()
			if ip == nil || ip.IsLoopback() {
				continue
			}
			result = append(result, SelfNetworkInfo{
				InterfaceName: iface.Name,
				IPAddress:     ip.String(),
			})
		}
	}
	return result
}

// DefaultURLRoot builds http://<first LAN ip>:<listen port>/archives/ for the opt-in download route.
func DefaultURLRoot(listen string) (string, error) {
	_, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", listen, err)
	}
	host := "localhost"
	if infos := GetSelfNetworkInfos(); len(infos) > 0 {
		host = infos[0].IPAddress
	}
	return fmt.Sprintf("http://%s/archives/", net.JoinHostPort(host, port)), nil
}

// CheckHostReachable pings the host part of rawURL a few times. Unprivileged ICMP may be
// disabled on the kiosk machine, callers should only warn on error.
func CheckHostReachable(rawURL string, timeout time.Duration) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("url %q has no host", rawURL)
	}
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", host, err)
	}
	pinger.Count = 3
	pinger.Interval = 200 * time.Millisecond
	pinger.Timeout = timeout
	pinger.SetPrivileged(false)
	if err := pinger.Run(); err != nil {
		return fmt.Errorf("failed to ping %s: %w", host, err)
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return fmt.Errorf("host %s did not answer %d pings", host, stats.PacketsSent)
	}
	DefaultLogger.Debugf("Share host %s reachable, avg rtt %v", host, stats.AvgRtt)
	return nil
}
