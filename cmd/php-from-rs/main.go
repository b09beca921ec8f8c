package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	gateway "github.com/kellegous/php-from-rs"
	"github.com/kellegous/php-from-rs/log"
)

var (
	configFile *string
	addr       *string
	auxAddr    *string
	fpmAddr    *string
	fpmScript  *string
	fpmConfig  *string
)

var rootCmd = &cobra.Command{
	Use:   "php-from-rs",
	Short: "http to fastcgi gateway that supervises php-fpm",
	Run:   runServer,
}

func runServer(cmd *cobra.Command, args []string) {
	opt, err := gateway.LoadOptions(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// flags override the config file
	f := cmd.Flags()
	if f.Changed("addr") {
		opt.Address = *addr
	}
	if f.Changed("aux-addr") {
		opt.AuxAddress = *auxAddr
	}
	if f.Changed("fpm.addr") {
		opt.Fpm.Address = *fpmAddr
	}
	if f.Changed("fpm.script-path") {
		opt.Fpm.ScriptPath = *fpmScript
	}
	if f.Changed("fpm.config-path") {
		opt.Fpm.ConfigPath = *fpmConfig
	}

	if err := opt.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := log.NewLogger(&opt.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	s, err := gateway.NewServer(opt, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		s.Stop()
		os.Exit(0)
	}()

	if err := s.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
}

func main() {
	f := rootCmd.PersistentFlags()
	configFile = f.StringP("config", "c", "", "config file path")
	addr = f.StringP("addr", "a", "0.0.0.0:3222", "listen address")
	auxAddr = f.StringP("aux-addr", "x", "127.0.0.1:7070", "aux listen address for metrics and health, empty disables")
	fpmAddr = f.String("fpm.addr", "127.0.0.1:9000", "php-fpm address")
	fpmScript = f.String("fpm.script-path", "pub/index.php", "php entry script")
	fpmConfig = f.String("fpm.config-path", "php-fpm.conf", "php-fpm config file")
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
