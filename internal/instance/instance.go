package instance

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
)

// Info identifies the serving instance in responses. It is computed fresh on
// every request from host and configuration state, never persisted.
type Info struct {
	Hostname      string `json:"hostname"`
	IPAddress     string `json:"ip_address"`
	InstanceID    string `json:"instance_id"`
	InstanceColor string `json:"instance_color"`
}

// Network describes how the instance is reachable on the network.
type Network struct {
	Hostname string `json:"hostname"`
	FQDN     string `json:"fqdn"`
}

// ResolutionError reports a failed hostname or address lookup. Handlers map
// it to a 500 response; the process keeps serving.
type ResolutionError struct {
	Op  string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("instance: %s: %v", e.Op, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Provider resolves the identity of the running instance. The id and color
// labels come from configuration and are echoed verbatim.
type Provider struct {
	id       string
	color    string
	resolver *net.Resolver
}

func NewProvider(id, color string) *Provider {
	return &Provider{
		id:       id,
		color:    color,
		resolver: net.DefaultResolver,
	}
}

// Hostname returns the bare hostname without touching the resolver, so
// callers on the health path never block on DNS.
func (p *Provider) Hostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}

// Info gathers the instance identity for a response. Returns a
// *ResolutionError when the hostname cannot be determined or resolved to an
// address.
func (p *Provider) Info(ctx context.Context) (Info, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Info{}, &ResolutionError{Op: "hostname", Err: err}
	}

	ip, err := p.lookupIP(ctx, hostname)
	if err != nil {
		return Info{}, &ResolutionError{Op: "lookup " + hostname, Err: err}
	}

	return Info{
		Hostname:      hostname,
		IPAddress:     ip,
		InstanceID:    p.id,
		InstanceColor: p.color,
	}, nil
}

// Network resolves the hostname and fully-qualified domain name. A failed
// reverse lookup degrades to the bare hostname rather than failing the
// request.
func (p *Provider) Network(ctx context.Context) Network {
	hostname := p.Hostname()

	fqdn := hostname
	if ip, err := p.lookupIP(ctx, hostname); err == nil {
		if names, err := p.resolver.LookupAddr(ctx, ip); err == nil && len(names) > 0 {
			fqdn = strings.TrimSuffix(names[0], ".")
		}
	}

	return Network{
		Hostname: hostname,
		FQDN:     fqdn,
	}
}

// lookupIP resolves hostname to a single address, preferring IPv4.
func (p *Provider) lookupIP(ctx context.Context, hostname string) (string, error) {
	addrs, err := p.resolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("no addresses for %q", hostname)
	}

	for _, addr := range addrs {
		if v4 := addr.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}

	return addrs[0].IP.String(), nil
}
