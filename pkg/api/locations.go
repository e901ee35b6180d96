package api

import "strings"

const (
	DefaultLocalLocation  = "http://localhost:8000"
	DefaultHostedLocation = "https://survey-backend.dbaraka.shop"
)

// Locations describes the candidate backend base URLs and the deployment mode.
type Locations struct {
	// PrimaryOverride wins over every other setting when non-empty.
	PrimaryOverride string
	LocalDefault    string
	HostedDefault   string
	// Hosted marks the public deployment; fallback is never attempted there.
	Hosted bool
	// UseProxy routes local deployments through ProxyOrigin (a dev server
	// forwarding /api to the backend). Ignored when hosted or when ProxyOrigin is empty.
	UseProxy    bool
	ProxyOrigin string
	// FallbackOverride replaces the derived secondary location.
	FallbackOverride string
}

// DefaultLocations returns the built-in local/hosted defaults.
func DefaultLocations(hosted bool) Locations {
	return Locations{
		LocalDefault:  DefaultLocalLocation,
		HostedDefault: DefaultHostedLocation,
		Hosted:        hosted,
	}
}

func (l Locations) withDefaults() Locations {
	if strings.TrimSpace(l.LocalDefault) == "" {
		l.LocalDefault = DefaultLocalLocation
	}
	if strings.TrimSpace(l.HostedDefault) == "" {
		l.HostedDefault = DefaultHostedLocation
	}
	return l
}

// Primary selects the first-choice location:
// override > proxy origin (local only) > environment default.
func (l Locations) Primary() string {
	l = l.withDefaults()
	if v := normalizeLocation(l.PrimaryOverride); v != "" {
		return v
	}
	if l.UseProxy && !l.Hosted {
		if v := normalizeLocation(l.ProxyOrigin); v != "" {
			return v
		}
	}
	if l.Hosted {
		return normalizeLocation(l.HostedDefault)
	}
	return normalizeLocation(l.LocalDefault)
}

// Secondary returns the retry candidate: the configured fallback, else the
// hosted default when primary is the local default, else the local default.
func (l Locations) Secondary() string {
	l = l.withDefaults()
	if v := normalizeLocation(l.FallbackOverride); v != "" {
		return v
	}
	if sameLocation(l.Primary(), l.LocalDefault) {
		return normalizeLocation(l.HostedDefault)
	}
	return normalizeLocation(l.LocalDefault)
}

func normalizeLocation(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

func sameLocation(a, b string) bool {
	return strings.EqualFold(normalizeLocation(a), normalizeLocation(b))
}

// FallbackPolicy narrows when a network failure against primary may be retried
// against secondary. The client already refuses fallback in hosted mode and when
// both locations are the same; a policy can only restrict further.
type FallbackPolicy interface {
	AllowFallback(primary, secondary string) bool
}

// FallbackPolicyFunc adapts a function to FallbackPolicy.
type FallbackPolicyFunc func(primary, secondary string) bool

func (f FallbackPolicyFunc) AllowFallback(primary, secondary string) bool {
	return f(primary, secondary)
}

var (
	// AlwaysFallback permits every structurally eligible fallback.
	AlwaysFallback FallbackPolicy = FallbackPolicyFunc(func(string, string) bool { return true })
	// NeverFallback disables fallback entirely.
	NeverFallback FallbackPolicy = FallbackPolicyFunc(func(string, string) bool { return false })
)

// joinURL appends endpoint (which may carry a query string) to base.
func joinURL(base, endpoint string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}
