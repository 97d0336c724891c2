// Package cmd, intelliview komut satırı arayüzüdür. Alt komut verilmezse
// sunucu başlatılır.
package cmd

import (
	"github.com/spf13/cobra"
)

// Global bayraklar.
var (
	cfgFile  string // opsiyonel config dosyası
	envFile  string // opsiyonel .env dosyası
	noDotEnv bool   // .env aramasını kapatır
	portFlag string // server.port'u ezer
)

var rootCmd = &cobra.Command{
	Use:   "intelliview",
	Short: "IntelliView API server",
	Long: `intelliview, IntelliView HTTP API sunucusunu çalıştırır.

Örnekler:
  # .env ve ortam değişkenleriyle başlat
  intelliview

  # config dosyası ve farklı portla başlat
  intelliview serve --config config.yaml --port 5000

  # sürüm bilgisi
  intelliview version`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute, kök komutu çalıştırır.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&envFile, "env-file", "", "env file to load (default: nearest .env)")
	flags.BoolVar(&noDotEnv, "no-dotenv", false, "do not load any .env file")
	flags.StringVarP(&portFlag, "port", "p", "", "listen port, overrides PORT")
}
