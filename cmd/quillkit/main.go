// Command quillkit runs a blog site with the built-in fallback templates.
// Most deployments import the library and provide their own templ views;
// this binary is for trying things out and for content imports.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quillkit/quillkit"
)

// set via -ldflags "-X main.version=..."
var version = "dev"

var configPath string

func loadConfig() (quillkit.SiteConfig, error) {
	cfg, err := quillkit.LoadConfig(configPath)
	if err != nil {
		return quillkit.SiteConfig{}, fmt.Errorf("load config %s: %w", configPath, err)
	}
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:           "quillkit",
	Short:         "A blog engine with scheduled publishing",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app := quillkit.New(cfg, quillkit.DefaultViews(cfg))
		defer app.Close()
		return app.Start()
	},
}

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import markdown files with frontmatter into the database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := cfg.ContentDir
		if len(args) > 0 {
			dir = args[0]
		}
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		store, err := quillkit.NewStore(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()
		n, err := quillkit.ImportDir(store, dir, log)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d posts\n", n)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "site.toml", "path to site config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
