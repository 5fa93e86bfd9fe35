package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SHOPIFY_STORE", "")
	t.Setenv("SHOPIFY_API_VERSION", "")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "rudis.myshopify.com", cfg.Shopify.Store)
	assert.Equal(t, DefaultAPIVersion, cfg.Shopify.APIVersion)
	assert.Equal(t, "", cfg.Shopify.AccessToken)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SHOPIFY_STORE", "example.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
	t.Setenv("SHOPIFY_API_VERSION", "2024-04")
	t.Setenv("GOOGLE_YOUTUBE_PUBLICATION_ID", "12345")
	t.Setenv("JIRA_URL", "https://example.atlassian.net")
	t.Setenv("JIRA_USERNAME", "pete@example.com")
	t.Setenv("JIRA_TOKEN", "jira-token")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "example.myshopify.com", cfg.Shopify.Store)
	assert.Equal(t, "shpat_test", cfg.Shopify.AccessToken)
	assert.Equal(t, "2024-04", cfg.Shopify.APIVersion)
	assert.Equal(t, "12345", cfg.Shopify.PublicationID)
	assert.Equal(t, "https://example.atlassian.net", cfg.Jira.URL)
	assert.Equal(t, "pete@example.com", cfg.Jira.Username)
	assert.Equal(t, "jira-token", cfg.Jira.Token)
}

func TestValidateShopifyConfig(t *testing.T) {
	tests := []struct {
		name    string
		store   string
		token   string
		wantErr bool
	}{
		{name: "valid", store: "x.myshopify.com", token: "t", wantErr: false},
		{name: "missing token", store: "x.myshopify.com", token: "", wantErr: true},
		{name: "missing store", store: "", token: "t", wantErr: true},
		{name: "missing both", store: "", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Shopify: ShopifyConfig{Store: tt.store, AccessToken: tt.token}}
			err := ValidateShopifyConfig(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "missing required environment variables")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJiraConfig(t *testing.T) {
	valid := &Config{Jira: JiraConfig{URL: "https://x", Username: "u", Token: "t"}}
	assert.NoError(t, ValidateJiraConfig(valid))

	missing := &Config{Jira: JiraConfig{URL: "https://x"}}
	err := ValidateJiraConfig(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JIRA_USERNAME")
	assert.Contains(t, err.Error(), "JIRA_TOKEN")
}
