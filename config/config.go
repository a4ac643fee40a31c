package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "CATALOG_CONFIG_FILE"

type catalog struct {
	Source          string        `mapstructure:"source"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	FallbackToLocal bool          `mapstructure:"fallback_to_local"`
	PrefsFile       string        `mapstructure:"prefs_file"`
}

type sanity struct {
	ProjectID  string `mapstructure:"project_id"`
	Dataset    string `mapstructure:"dataset"`
	APIVersion string `mapstructure:"api_version"`
	Token      string `mapstructure:"token"`
}

type backend struct {
	BaseURL  string `mapstructure:"base_url"`
	PageSize int    `mapstructure:"page_size"`
}

type topics struct {
	CatalogSync string `mapstructure:"catalog_sync"`
}

type consumers struct {
	CatalogSyncGroup string `mapstructure:"catalog_sync_group"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	Instance       string     `mapstructure:"instance"`
	Catalog        catalog    `mapstructure:"catalog"`
	Sanity         sanity     `mapstructure:"sanity"`
	Backend        backend    `mapstructure:"backend"`
	Broker         broker     `mapstructure:"broker"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	Instance=%q

	Catalog:
	Source=%q
	CacheTTL=%v
	FallbackToLocal=%t
	PrefsFile=%q

	Sanity:
	ProjectID=%q
	Dataset=%q
	APIVersion=%q
	TokenSet=%t

	Backend:
	BaseURL=%q
	PageSize=%d

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		CatalogSync=%q
	Consumers:
		CatalogSyncGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.Instance,
		c.Catalog.Source,
		c.Catalog.CacheTTL,
		c.Catalog.FallbackToLocal,
		c.Catalog.PrefsFile,
		c.Sanity.ProjectID,
		c.Sanity.Dataset,
		c.Sanity.APIVersion,
		c.Sanity.Token != "",
		c.Backend.BaseURL,
		c.Backend.PageSize,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.CatalogSync,
		c.Broker.Consumers.CatalogSyncGroup,
	)
}
