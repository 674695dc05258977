package main

import (
	"fmt"
	"io"
	"strings"

	"creative-tools-api/internal/config"
	"creative-tools-api/internal/domain"
	"creative-tools-api/internal/repository"
	"creative-tools-api/internal/service"
	"creative-tools-api/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	subscriptions domain.SubscriptionService
}

type wireFunc func(v *viper.Viper, logOut io.Writer) (*app, error)

// Keys shared with the server's environment.
const (
	keyStoreDriver  = "STORE_DRIVER"
	keySupabaseURL  = "SUPABASE_URL"
	keySupabaseKey  = "SUPABASE_SERVICE_ROLE_KEY"
	keySupabaseAnon = "SUPABASE_ANON_KEY"
	keyLogLevel     = "LOG_LEVEL"

	flagStoreDriver = "store"
	flagSupabaseURL = "supabase-url"
	flagLogLevel    = "log-level"

	defaultCLILogLevel = "warn"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyStoreDriver, config.StoreDriverSupabase)
	v.SetDefault(keyLogLevel, defaultCLILogLevel)
	return v
}

// bindFlags lets persistent flags override the environment.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	flags.String(flagStoreDriver, "", "Store driver (supabase or memory)")
	flags.String(flagSupabaseURL, "", "Supabase project URL")
	flags.String(flagLogLevel, "", "Log level")

	for key, name := range map[string]string{
		keyStoreDriver: flagStoreDriver,
		keySupabaseURL: flagSupabaseURL,
		keyLogLevel:    flagLogLevel,
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// configFromViper starts from the server's environment config and applies
// anything viper resolved from flags.
func configFromViper(v *viper.Viper) *config.AppConfig {
	cfg := config.NewConfig().(*config.AppConfig)
	cfg.StoreDriver = strings.ToLower(v.GetString(keyStoreDriver))
	cfg.SupabaseURL = v.GetString(keySupabaseURL)
	cfg.SupabaseServiceRoleKey = v.GetString(keySupabaseKey)
	cfg.SupabaseKey = v.GetString(keySupabaseAnon)
	cfg.LogLevel = v.GetString(keyLogLevel)
	return cfg
}

func wireApp(v *viper.Viper, logOut io.Writer) (*app, error) {
	cfg := configFromViper(v)
	appLogger := logger.NewLoggerWithOutput(cfg.GetLogLevel(), logOut)

	stores, err := config.OpenStores(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("wire store: %w", err)
	}

	repo := repository.NewSubscriptionRepository(stores.Documents, appLogger)
	return &app{
		subscriptions: service.NewSubscriptionService(repo, appLogger, nil),
	}, nil
}
