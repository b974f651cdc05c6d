package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if got := GetCatalog(""); got != base {
		t.Fatal("expected empty locale to use en-US")
	}
	if got := GetCatalog("missing-locale"); got != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if got := GetCatalog("fr-FR"); got != base {
		t.Fatal("expected unsupported language to use en-US")
	}
}

func TestGetCatalogMatchesLanguage(t *testing.T) {
	if got := GetCatalog("pt").Locale(); got != "pt-BR" {
		t.Fatalf("expected pt to match pt-BR, got %s", got)
	}
	if got := GetCatalog("en-GB").Locale(); got != BaseLocale {
		t.Fatalf("expected en-GB to match en-US, got %s", got)
	}
}

func TestEveryCodeIsTranslated(t *testing.T) {
	for code := range enUSMessages {
		if _, ok := ptBRMessages[code]; !ok {
			t.Fatalf("pt-BR catalog missing %s", code)
		}
	}
	if len(ptBRMessages) != len(enUSMessages) {
		t.Fatalf("catalog sizes differ: pt-BR %d, en-US %d", len(ptBRMessages), len(enUSMessages))
	}
}

func TestFormatNotNumeric(t *testing.T) {
	got := GetCatalog(BaseLocale).Format(CodeReadingNotNumeric, map[string]string{"field": "SDM"})
	if got != "SDM must be numeric" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if got := cat.Format("code", nil); got != "hello " {
		t.Fatalf("expected missing metadata to render empty, got %q", got)
	}
	if !cat.Has("code") || cat.Has("unknown") {
		t.Fatal("unexpected Has result")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestFormatTemplateExecutionErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ call .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ call .Name }}" {
		t.Fatal("expected template fallback on execute error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("x-custom", map[Code]string{"code": "ok"})
	RegisterCatalog("x-custom", custom)
	if got := GetCatalog("x-custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}
