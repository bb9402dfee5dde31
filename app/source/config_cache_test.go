package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	writeSourceFile(t, tempDir, "tech.yml", `
type: rss
url: "https://example.com/feed.xml"
source_name: "Example Tech"

settings:
  enabled: true
  refresh_interval: 1800
  timeout: 15
  extract_content: true

filters:
  - field: title
    excludes: ["sponsored"]
`)

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 sourceConfig, got %d", configCache.GetConfigCount())
	}

	sourceConfig, err := configCache.GetConfig("tech")
	if err != nil {
		t.Fatal(err)
	}

	if sourceConfig.Name != "tech" {
		t.Errorf("Expected name 'tech', got '%s'", sourceConfig.Name)
	}
	if sourceConfig.Type != TypeRSS {
		t.Errorf("Expected type 'rss', got '%s'", sourceConfig.Type)
	}
	if sourceConfig.SourceName != "Example Tech" {
		t.Errorf("Expected source name 'Example Tech', got '%s'", sourceConfig.SourceName)
	}
	if sourceConfig.Settings.RefreshDuration() != 1800*time.Second {
		t.Errorf("Expected refresh interval 1800s, got %v", sourceConfig.Settings.RefreshDuration())
	}
	if sourceConfig.Settings.TimeoutDuration() != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", sourceConfig.Settings.TimeoutDuration())
	}
	if !sourceConfig.Settings.ExtractContent {
		t.Error("Expected extract_content to be enabled")
	}
	if len(sourceConfig.Filters) != 1 || sourceConfig.Filters[0].Excludes[0] != "sponsored" {
		t.Errorf("Expected one title filter, got %+v", sourceConfig.Filters)
	}
}

func TestConfigCacheDefaults(t *testing.T) {
	tempDir := t.TempDir()

	writeSourceFile(t, tempDir, "headlines.yml", `
url: "https://newsapi.org/v2/top-headlines?country=gb"
settings:
  enabled: true
`)

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	sourceConfig, err := configCache.GetConfig("headlines")
	if err != nil {
		t.Fatal(err)
	}

	if sourceConfig.Type != TypeNewsAPI {
		t.Errorf("Expected default type 'newsapi', got '%s'", sourceConfig.Type)
	}
	if sourceConfig.Settings.RefreshInterval != DefaultRefreshInterval {
		t.Errorf("Expected default refresh interval %d, got %d", DefaultRefreshInterval, sourceConfig.Settings.RefreshInterval)
	}
	if sourceConfig.Settings.Timeout != DefaultTimeout {
		t.Errorf("Expected default timeout %d, got %d", DefaultTimeout, sourceConfig.Settings.Timeout)
	}
}

func TestConfigCacheValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"missing url", "type: rss\nsettings:\n  enabled: true\n", "source URL is required"},
		{"unknown type", "type: gopher\nurl: \"https://example.com\"\n", "unsupported source type"},
		{"negative timeout", "url: \"https://example.com\"\nsettings:\n  timeout: -1\n", "timeout must be non-negative"},
		{"bad yaml", "url: [unclosed\n", "failed to parse YAML"},
		{"unknown filter field", "url: \"https://example.com\"\nfilters:\n  - field: categories\n    includes: [\"world\"]\n", "unsupported filter field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			writeSourceFile(t, tempDir, "broken.yml", tt.content)

			err := NewConfigCache(tempDir).Run()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("Expected error containing '%s', got '%s'", tt.errText, err.Error())
			}
		})
	}
}

func TestConfigCacheMissingDirectory(t *testing.T) {
	configCache := NewConfigCache(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := configCache.Run(); err != nil {
		t.Fatalf("Expected no error for missing directory, got: %v", err)
	}
	if configCache.GetConfigCount() != 0 {
		t.Errorf("Expected 0 configs, got %d", configCache.GetConfigCount())
	}
}

func TestConfigCacheEnabledConfigsSorted(t *testing.T) {
	tempDir := t.TempDir()
	writeSourceFile(t, tempDir, "zeta.yml", "url: \"https://example.com/z\"\nsettings:\n  enabled: true\n")
	writeSourceFile(t, tempDir, "alpha.yml", "url: \"https://example.com/a\"\nsettings:\n  enabled: true\n")
	writeSourceFile(t, tempDir, "off.yml", "url: \"https://example.com/o\"\nsettings:\n  enabled: false\n")

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	enabled := configCache.GetEnabledConfigs()
	if len(enabled) != 2 {
		t.Fatalf("Expected 2 enabled configs, got %d", len(enabled))
	}
	if enabled[0].Name != "alpha" || enabled[1].Name != "zeta" {
		t.Errorf("Expected [alpha zeta], got [%s %s]", enabled[0].Name, enabled[1].Name)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("")
	if cfg.URL != DefaultNewsAPIURL {
		t.Errorf("Expected default URL, got '%s'", cfg.URL)
	}
	if !cfg.Settings.Enabled || cfg.Type != TypeNewsAPI {
		t.Errorf("Expected enabled newsapi source, got %+v", cfg)
	}
}
