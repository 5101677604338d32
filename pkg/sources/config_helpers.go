package sources

import "strings"

// ConfigString returns the trimmed string value for key from Descriptor.Config or a fallback.
func ConfigString(d Descriptor, key, fallback string) string {
	if d.Config != nil {
		if raw, ok := d.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigCacheControlKey   = "cache_control"
)

// Headers builds the per-source request headers from a descriptor config (skips empty values).
func Headers(d Descriptor) map[string]string {
	headers := make(map[string]string, 4)

	if v := ConfigString(d, ConfigUserAgentKey, ""); v != "" {
		headers["User-Agent"] = v
	}
	if v := ConfigString(d, ConfigAcceptKey, ""); v != "" {
		headers["Accept"] = v
	}
	if v := ConfigString(d, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}
	if v := ConfigString(d, ConfigCacheControlKey, ""); v != "" {
		headers["Cache-Control"] = v
	}

	return headers
}
