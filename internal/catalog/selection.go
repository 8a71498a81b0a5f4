// Package catalog resolves which generation model a search will use.
package catalog

import "quaero/internal/api"

// Selection is the user's provider/model choice. The local flag is derived
// from the provider, so a local model can never be paired with a remote-only
// request or the other way around. The zero value is "remote, provider
// default".
type Selection struct {
	provider api.Provider
	model    string
}

// Default returns a selection without a model override.
func Default(forceLocal bool) Selection {
	if forceLocal {
		return Selection{provider: api.ProviderLocal}
	}
	return Selection{provider: api.ProviderRemote}
}

// Select picks model from provider. Choosing a local model turns local
// execution on; choosing a remote model turns it off.
func Select(provider api.Provider, model string) Selection {
	if provider != api.ProviderLocal {
		provider = api.ProviderRemote
	}
	return Selection{provider: provider, model: model}
}

// Provider returns the provider the selection targets.
func (s Selection) Provider() api.Provider {
	if s.provider == api.ProviderLocal {
		return api.ProviderLocal
	}
	return api.ProviderRemote
}

// Model returns the explicit model override, or "" for the provider default.
func (s Selection) Model() string { return s.model }

// HasOverride reports whether an explicit model was chosen.
func (s Selection) HasOverride() bool { return s.model != "" }

// ForceLocal is the derived "prefer local provider" flag.
func (s Selection) ForceLocal() bool { return s.Provider() == api.ProviderLocal }

// WithForceLocal flips local execution. Switching provider drops the model
// override because it belonged to the other provider.
func (s Selection) WithForceLocal(on bool) Selection {
	if on == s.ForceLocal() {
		return s
	}
	return Default(on)
}

// Apply writes the selection into a request. Model/provider overrides are only
// sent when a model was chosen explicitly.
func (s Selection) Apply(req *api.SearchRequest) {
	req.ForceLocal = s.ForceLocal()
	req.SelectedModel = ""
	req.SelectedProvider = ""
	if s.HasOverride() {
		req.SelectedModel = s.model
		req.SelectedProvider = s.Provider()
	}
}
