package di

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/web3tea/logrelay/config"
	"github.com/web3tea/logrelay/mailbox"
	"github.com/web3tea/logrelay/settings"
)

func SetupContainer(cfgPath string) do.Injector {

	injector := do.New()

	do.ProvideNamedValue(injector, "configPath", cfgPath)
	do.Provide(injector, NewConfig)
	do.Provide(injector, NewStore)
	do.Provide(injector, NewRegistry)

	return injector
}

func NewConfig(i do.Injector) (*config.Config, error) {
	return config.NewFromFile(do.MustInvokeNamed[string](i, "configPath"))
}

func NewStore(i do.Injector) (settings.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)

	switch cfg.Settings.Driver {
	case "", "memory":
		return settings.NewMemoryStore(), nil
	case "file":
		if cfg.Settings.Path == "" {
			return nil, fmt.Errorf("settings.path is required for the file driver")
		}
		return settings.NewFileStore(cfg.Settings.Path), nil
	case "postgres":
		if cfg.Settings.DSN == "" {
			return nil, fmt.Errorf("settings.dsn is required for the postgres driver")
		}
		return settings.NewPostgresStore(cfg.Settings.DSN)
	default:
		return nil, fmt.Errorf("unsupported settings driver: %s", cfg.Settings.Driver)
	}
}

func NewRegistry(i do.Injector) (*mailbox.MapRegistry, error) {
	return mailbox.NewMapRegistry(), nil
}
