package config

import "fmt"

// Proxy configures an HTTP(S) proxy made available during the build and,
// optionally, inside the running container.
type Proxy struct {
	// Address is the proxy host or IP, without scheme. Empty disables the
	// proxy entirely.
	Address string
	// Port is the proxy port. Zero means unset; setting an address without
	// a port is accepted and left to the templates to reject or default.
	Port int
	// EnableGlobally exports the proxy into the image's global environment.
	EnableGlobally bool
	// RemoveAfterBuild strips the global proxy settings in the final layer.
	RemoveAfterBuild bool
	// UseHTTPS selects https:// instead of http:// for the proxy URL.
	UseHTTPS bool
}

// NewProxy validates and returns a Proxy.
func NewProxy(address string, port int, enableGlobally, removeAfterBuild, useHTTPS bool) (Proxy, error) {
	if port < 0 || port > 65535 {
		return Proxy{}, errf("proxy.port", fmt.Sprint(port), "must be between 1 and 65535")
	}
	return Proxy{
		Address:          address,
		Port:             port,
		EnableGlobally:   enableGlobally,
		RemoveAfterBuild: removeAfterBuild,
		UseHTTPS:         useHTTPS,
	}, nil
}

// Disabled reports whether the proxy configuration is entirely unset.
func (p Proxy) Disabled() bool {
	return p.Address == "" && p.Port == 0 && !p.EnableGlobally && !p.RemoveAfterBuild && !p.UseHTTPS
}

// URL renders the proxy endpoint, e.g. "http://10.0.0.1:7890". The result is
// empty when no address is configured.
func (p Proxy) URL() string {
	if p.Address == "" {
		return ""
	}
	scheme := "http"
	if p.UseHTTPS {
		scheme = "https"
	}
	if p.Port == 0 {
		return fmt.Sprintf("%s://%s", scheme, p.Address)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, p.Address, p.Port)
}
