package katex

import "testing"

func TestProtocolFromURL(t *testing.T) {
	tt := []struct {
		url      string
		protocol string
	}{
		{url: "https://katex.org", protocol: "https"},
		{url: "HTTP://katex.org", protocol: "http"},
		{url: "  mailto:someone@katex.org", protocol: "mailto"},
		{url: "javascript:alert(1)", protocol: "javascript"},
		{url: "/docs/options", protocol: "_relative"},
		{url: "#anchor", protocol: "_relative"},
		{url: "?q=a:b", protocol: "_relative"},
		{url: "javascript&colon;alert(1)", protocol: ""},
		{url: "java&#58;script", protocol: ""},
		{url: "1http:katex.org", protocol: ""},
	}

	for _, tc := range tt {
		t.Run(tc.url, func(t *testing.T) {
			if got := protocolFromURL(tc.url); got != tc.protocol {
				t.Errorf("Want %q, got %q", tc.protocol, got)
			}
		})
	}
}

func TestIsTrusted(t *testing.T) {
	var seen TrustContext
	settings := DefaultSettings()
	settings.TrustFunc = func(ctx TrustContext) bool {
		seen = ctx
		return ctx.Protocol == "https"
	}

	if !settings.isTrusted(TrustContext{Command: "\\href", URL: "https://katex.org"}) {
		t.Error("https link must be trusted")
	}

	if seen.Protocol != "https" || seen.Command != "\\href" {
		t.Errorf("Trust function got unexpected context %+v", seen)
	}

	if settings.isTrusted(TrustContext{Command: "\\href", URL: "ftp://katex.org"}) {
		t.Error("ftp link must not be trusted")
	}

	settings.TrustFunc = nil
	settings.Trust = true
	if settings.isTrusted(TrustContext{Command: "\\href", URL: "java&#58;script"}) {
		t.Error("Link with an encoded colon must never be trusted")
	}
}
