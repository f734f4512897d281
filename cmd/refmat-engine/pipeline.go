// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/refmat-engine/internal/aggregate"
	"github.com/pdiddy/refmat-engine/internal/identity"
	"github.com/pdiddy/refmat-engine/internal/logging"
	"github.com/pdiddy/refmat-engine/internal/repository"
	"github.com/pdiddy/refmat-engine/pkg/types"
)

// pipeline bundles the constructed components a command needs.
type pipeline struct {
	Logger     *zap.Logger
	Resolver   *identity.Resolver
	Repo       *repository.Client
	Aggregator *aggregate.Aggregator
	Config     types.PipelineConfig
}

// pipelineConfig assembles the stage configuration from viper and secrets.
func pipelineConfig() types.PipelineConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	userAgent := viper.GetString("http.user_agent")
	if userAgent == "" {
		userAgent = "refmat-engine/" + version
	}
	httpCfg := types.HTTPConfig{Timeout: timeout, UserAgent: userAgent}

	return types.PipelineConfig{
		Identity: types.IdentityConfig{
			HTTPConfig:   httpCfg,
			MaxSynonyms:  viper.GetInt("identity.max_synonyms"),
			ContactEmail: secretDefault("identity-contact-email", viper.GetString("identity.contact_email")),
		},
		Repository: types.RepositoryConfig{
			HTTPConfig:     httpCfg,
			CategoryFilter: viper.GetString("repository.category_filter"),
			APIKey:         secretDefault("repository-api-key", viper.GetString("repository.api_key")),
		},
		Search: types.SearchConfig{
			MaxMaterials:   viper.GetInt("search.max_materials"),
			InterTermDelay: viper.GetDuration("search.inter_term_delay"),
		},
		Enrichment: types.EnrichmentConfig{
			CacheSize: viper.GetInt("enrichment.cache_size"),
		},
	}
}

// buildPipeline constructs the logger, both client wrappers, and the
// aggregator for a command invocation.
func buildPipeline() (*pipeline, error) {
	env, _ := rootCmd.PersistentFlags().GetString("env")
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	logger, err := logging.New(env, level)
	if err != nil {
		return nil, err
	}

	cfg := pipelineConfig()
	client := &http.Client{Timeout: cfg.Identity.Timeout}

	resolver := &identity.Resolver{Client: client, Config: cfg.Identity, Logger: logger}
	repo := &repository.Client{Client: client, Config: cfg.Repository, Logger: logger}

	return &pipeline{
		Logger:   logger,
		Resolver: resolver,
		Repo:     repo,
		Aggregator: &aggregate.Aggregator{
			Identity: resolver,
			Repo:     repo,
			Config:   cfg.Search,
			Logger:   logger,
		},
		Config: cfg,
	}, nil
}
