package main

import (
	"strings"

	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/notify"
	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/properties"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "SMARTLAUNCH"
	configName = "smartlaunch"
)

// Config is the launcher configuration. Every field can be set from the
// config file, the environment or a flag, in increasing order of precedence.
type Config struct {
	WebhookFile string   `mapstructure:"webhook-file"`
	Properties  string   `mapstructure:"properties"`
	Lock        string   `mapstructure:"lock"`
	Jars        string   `mapstructure:"jars"`
	ServerJar   string   `mapstructure:"server-jar"`
	Java        string   `mapstructure:"java"`
	JavaArgs    []string `mapstructure:"java-args"`
	Journal     string   `mapstructure:"journal"`
	Banner      string   `mapstructure:"banner"`
	At          string   `mapstructure:"at"`
	AppName     string   `mapstructure:"app-name"`
	AvatarURL   string   `mapstructure:"avatar-url"`
}

// Argv returns the command line that starts the server.
func (c Config) Argv() []string {
	argv := make([]string, 0, len(c.JavaArgs)+3)
	argv = append(argv, c.Java)
	argv = append(argv, c.JavaArgs...)
	argv = append(argv, "-jar", c.ServerJar)
	return argv
}

func defaultConfig() Config {
	return Config{
		WebhookFile: "./discord.webhook",
		Properties:  "./server.properties",
		Lock:        "./server.lock",
		Jars:        "./jars",
		ServerJar:   "./server.jar",
		Java:        "java",
		JavaArgs:    []string{"-Xmx2048M", "-Xms1024M"},
		Journal:     "./smartlaunch.journal",
		Banner:      properties.DefaultBanner,
		AppName:     "Minecraft Smart Server Launching Thingy",
		AvatarURL:   notify.DefaultAvatarURL,
	}
}

func newViper() *viper.Viper {
	def := defaultConfig()

	v := viper.New()
	v.SetDefault("webhook-file", def.WebhookFile)
	v.SetDefault("properties", def.Properties)
	v.SetDefault("lock", def.Lock)
	v.SetDefault("jars", def.Jars)
	v.SetDefault("server-jar", def.ServerJar)
	v.SetDefault("java", def.Java)
	v.SetDefault("java-args", def.JavaArgs)
	v.SetDefault("journal", def.Journal)
	v.SetDefault("banner", def.Banner)
	v.SetDefault("at", def.At)
	v.SetDefault("app-name", def.AppName)
	v.SetDefault("avatar-url", def.AvatarURL)

	// SMARTLAUNCH_SERVER_JAR sets server-jar.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// addConfigFlags registers the configuration flags on cmd and binds them to
// v. The flag defaults are left empty so that unset flags fall through to the
// config file and environment.
func addConfigFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.Flags()
	flags.String("webhook-file", "", "file containing the Discord webhook URL")
	flags.String("properties", "", "path to server.properties")
	flags.String("lock", "", "path to the server lock file")
	flags.String("jars", "", "directory of server jars named <version>.jar")
	flags.String("server-jar", "", "path the server jar is copied to")
	flags.String("java", "", "java executable")
	flags.StringSlice("java-args", nil, "arguments passed to java before -jar")
	flags.String("journal", "", "journal file path, or empty to disable")
	flags.String("banner", "", "first line of the motd")
	flags.String("at", "", "shutdown time as HH:MM, prompted if empty")
	flags.String("app-name", "", "name used for the banner and webhook messages")
	flags.String("avatar-url", "", "avatar of webhook messages")

	if err := v.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	return nil
}

// loadConfig reads the config file, if any, and returns the merged config. An
// explicit path must exist; otherwise smartlaunch.yaml is looked up in the
// working directory and skipped if absent.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "failed to read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return cfg, nil
}
