// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAPIVersion is the Shopify Admin API version used when none is configured.
const DefaultAPIVersion = "2024-01"

// Config holds all configuration parameters for the application.
type Config struct {
	Shopify ShopifyConfig
	Jira    JiraConfig
}

// ShopifyConfig holds Shopify Admin API specific configuration.
type ShopifyConfig struct {
	// Store is the myshopify domain (e.g. "rudis.myshopify.com")
	Store string

	// AccessToken authenticates Admin API requests
	AccessToken string

	// APIVersion is the versioned path segment (e.g. "2024-01")
	APIVersion string

	// PublicationID optionally pins the Google & YouTube publication,
	// bypassing the name-based lookup
	PublicationID string
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	URL      string
	Username string
	Token    string
}

// LoadConfig initializes and loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("shopify.store", "SHOPIFY_STORE")
	v.BindEnv("shopify.token", "SHOPIFY_ACCESS_TOKEN")
	v.BindEnv("shopify.api_version", "SHOPIFY_API_VERSION")
	v.BindEnv("shopify.publication_id", "GOOGLE_YOUTUBE_PUBLICATION_ID")
	v.BindEnv("jira.url", "JIRA_URL")
	v.BindEnv("jira.username", "JIRA_USERNAME")
	v.BindEnv("jira.token", "JIRA_TOKEN")

	v.SetDefault("shopify.store", "rudis.myshopify.com")
	v.SetDefault("shopify.api_version", DefaultAPIVersion)

	config := &Config{
		Shopify: ShopifyConfig{
			Store:         v.GetString("shopify.store"),
			AccessToken:   v.GetString("shopify.token"),
			APIVersion:    v.GetString("shopify.api_version"),
			PublicationID: v.GetString("shopify.publication_id"),
		},
		Jira: JiraConfig{
			URL:      v.GetString("jira.url"),
			Username: v.GetString("jira.username"),
			Token:    v.GetString("jira.token"),
		},
	}

	return config, nil
}

// ValidateShopifyConfig ensures the credentials needed for Admin API calls
// are present. Checked before any network call is made.
func ValidateShopifyConfig(config *Config) error {
	var missingVars []string

	if config.Shopify.Store == "" {
		missingVars = append(missingVars, "SHOPIFY_STORE")
	}
	if config.Shopify.AccessToken == "" {
		missingVars = append(missingVars, "SHOPIFY_ACCESS_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}

// ValidateJiraConfig validates JIRA-specific configuration.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.URL == "" {
		missingVars = append(missingVars, "JIRA_URL")
	}
	if config.Jira.Username == "" {
		missingVars = append(missingVars, "JIRA_USERNAME")
	}
	if config.Jira.Token == "" {
		missingVars = append(missingVars, "JIRA_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
