package catalog

import "quaero/internal/api"

// Sentinel labels shown in place of a model name.
const (
	LabelLoading       = "Loading…"
	LabelNotConfigured = "Not configured"
	LabelNoModels      = "No models available"
)

// CurrentModelLabel derives the "current model" caption. It is pure: the same
// inputs always give the same label.
//
// Priority: no catalog yet; local requested and local has models; remote
// requested and remote has models; nothing available. A local request never
// shows a remote model.
func CurrentModelLabel(sel Selection, cat *api.ModelCatalog) string {
	if cat == nil {
		return LabelLoading
	}
	if sel.ForceLocal() && cat.Local.HasModels() {
		if sel.HasOverride() {
			return sel.Model()
		}
		if cat.Local.Configured != "" {
			return cat.Local.Configured
		}
		return LabelNotConfigured
	}
	if !sel.ForceLocal() && cat.Remote.HasModels() {
		if sel.HasOverride() {
			return sel.Model()
		}
		if cat.Remote.Configured != "" {
			return cat.Remote.Configured
		}
		return LabelNotConfigured
	}
	return LabelNoModels
}

// Choice is one selectable entry of the model picker.
type Choice struct {
	Provider api.Provider
	Model    string
	Default  bool // the provider's configured default
	Selected bool
}

// Selection returns the selection that picking this choice produces.
func (c Choice) Selection() Selection {
	return Select(c.Provider, c.Model)
}

// Choices lists every pickable model, remote first. The remote configured
// default is listed even when the backend did not repeat it in available.
func Choices(cat *api.ModelCatalog, sel Selection) []Choice {
	if cat == nil {
		return nil
	}
	var out []Choice
	for _, p := range []api.Provider{api.ProviderRemote, api.ProviderLocal} {
		rec := cat.Provider(p)
		models := rec.Available
		if rec.Configured != "" && !contains(models, rec.Configured) && p == api.ProviderRemote {
			models = append([]string{rec.Configured}, models...)
		}
		for _, m := range models {
			out = append(out, Choice{
				Provider: p,
				Model:    m,
				Default:  m == rec.Configured,
				Selected: isSelected(sel, p, m, rec.Configured),
			})
		}
	}
	return out
}

func isSelected(sel Selection, p api.Provider, model, configured string) bool {
	if sel.Provider() != p {
		return false
	}
	if sel.HasOverride() {
		return sel.Model() == model
	}
	return model == configured
}

// ProviderStatus explains why a provider offers nothing, or returns "".
func ProviderStatus(cat *api.ModelCatalog, p api.Provider) string {
	if cat == nil {
		return ""
	}
	rec := cat.Provider(p)
	if rec.HasModels() || (p == api.ProviderRemote && rec.Configured != "") {
		return ""
	}
	if rec.Error != "" {
		return rec.Error
	}
	if p == api.ProviderLocal {
		return "No local models detected"
	}
	return LabelNotConfigured
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
