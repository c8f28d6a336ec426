package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/portseek/portseek/component/ports"
	"github.com/portseek/portseek/config"
	C "github.com/portseek/portseek/constant"
	"github.com/portseek/portseek/hub"
	"github.com/portseek/portseek/log"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newAppConfig() *AppConfig {
	return &AppConfig{
		homeDir:            os.Getenv("PORTSEEK_HOME_DIR"),
		configFile:         os.Getenv("PORTSEEK_CONFIG_FILE"),
		externalController: os.Getenv("PORTSEEK_EXTERNAL_CONTROLLER"),
		secret:             os.Getenv("PORTSEEK_SECRET"),
	}
}

func NewApp() *App {
	app := &App{
		Config: newAppConfig(),
	}
	app.setupRootCmd()
	return app
}

func (a *App) Run() error {
	return a.RootCmd.Execute()
}

func (a *App) setupRootCmd() {
	a.RootCmd = &cobra.Command{
		Use:   "portseek [pid]...",
		Short: "Resolve the TCP ports a process has bound.",
		Long:  `Portseek maps a process id to the TCP ports it currently has bound, on Windows, macOS, and Linux. Given no pids and a configured external controller it serves a RESTful API instead.`,
		Args:  cobra.ArbitraryArgs,
		Run:   a.execute,
	}
	a.RootCmd.PersistentFlags().StringVarP(&a.Config.homeDir, "dir", "d", a.Config.homeDir, "specify configuration directory, env: PORTSEEK_HOME_DIR")
	a.RootCmd.PersistentFlags().StringVarP(&a.Config.configFile, "config", "f", a.Config.configFile, "specify configuration file, env: PORTSEEK_CONFIG_FILE")
	a.RootCmd.PersistentFlags().StringVar(&a.Config.externalController, "ext-ctl", a.Config.externalController, "override external controller address, env: PORTSEEK_EXTERNAL_CONTROLLER")
	a.RootCmd.PersistentFlags().StringVar(&a.Config.secret, "secret", a.Config.secret, "override secret for RESTful API, env: PORTSEEK_SECRET")
	a.RootCmd.PersistentFlags().BoolVarP(&a.Config.version, "version", "v", false, "show current version of portseek")
}

func (a *App) execute(cmd *cobra.Command, args []string) {
	setupMaxProcs()

	if a.Config.version {
		a.printVersion()
		return
	}

	if a.Config.homeDir != "" {
		C.SetHomeDir(resolvePath(a.Config.homeDir))
	}

	if a.Config.configFile != "" {
		C.SetConfig(resolvePath(a.Config.configFile))
	} else {
		C.SetConfig(filepath.Join(C.Path.HomeDir(), C.Path.Config()))
	}

	if err := config.Init(C.Path.HomeDir()); err != nil {
		log.Fatalln("Initial configuration directory error: %s", err.Error())
	}

	cfg, err := hub.Parse(a.parseOptions()...)
	if err != nil {
		log.Fatalln("Parse config error: %s", err.Error())
	}

	if len(args) > 0 {
		a.resolvePids(args, cfg)
		return
	}

	if cfg.General.ExternalController == "" {
		cmd.Help()
		return
	}

	a.handleSignals()
	fmt.Println("Portseek is running now, press Ctrl+C to exit.")
	select {}
}

// resolvePids resolves every pid argument concurrently and prints one line
// per pid in argument order. A failed pid reports on stderr and flips the
// exit code without suppressing the other results.
func (a *App) resolvePids(args []string, cfg *config.Config) {
	lines, errs := resolveEach(args, func(pid int) ([]string, error) {
		return ports.ResolvePorts(pid, cfg.Resolver.Options()...)
	})

	failed := false
	for i := range args {
		if errs[i] != nil {
			failed = true
			fmt.Fprintln(os.Stderr, errs[i].Error())
			continue
		}
		fmt.Println(lines[i])
	}

	if failed {
		os.Exit(1)
	}
}

// resolveEach resolves the pid arguments concurrently, keeping argument
// order. Each slot ends up with either a formatted result line or an error.
func resolveEach(args []string, resolve func(pid int) ([]string, error)) ([]string, []error) {
	lines := make([]string, len(args))
	errs := make([]error, len(args))

	var group errgroup.Group
	for i, arg := range args {
		i, arg := i, arg
		group.Go(func() error {
			pid, err := strconv.Atoi(arg)
			if err != nil {
				errs[i] = fmt.Errorf("%q: %w", arg, ports.ErrInvalidPID)
				return nil
			}

			result, err := resolve(pid)
			if err != nil {
				errs[i] = fmt.Errorf("pid %d: %w", pid, err)
				return nil
			}

			if len(result) == 0 {
				lines[i] = arg + ": -"
				return nil
			}
			lines[i] = arg + ": " + strings.Join(result, " ")
			return nil
		})
	}
	group.Wait()

	return lines, errs
}

func (a *App) printVersion() {
	fmt.Printf(
		"Portseek Version: %s\nOS: %s\nArchitecture: %s\nGo Version: %s\nBuild Time: %s\n",
		C.Version, runtime.GOOS, runtime.GOARCH, runtime.Version(), C.BuildTime)
}

func (a *App) parseOptions() []hub.Option {
	var options []hub.Option
	if a.Config.externalController != "" {
		options = append(options, hub.WithExternalController(a.Config.externalController))
	}
	if a.Config.secret != "" {
		options = append(options, hub.WithSecret(a.Config.secret))
	}
	return options
}

func (a *App) handleSignals() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for sig := range sigs {
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				log.Infoln("Received SIGINT or SIGTERM. Exiting gracefully...")
				os.Exit(0)
			}
		}
	}()
}
