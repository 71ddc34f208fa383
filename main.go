/*
Command renderpass validates and compiles render pass description files.

	renderpass [-config file] [-watch] [-v] [files or directories...]

Directories are searched for *.rpass.toml files. Without arguments the
descriptions directory from the configuration is used. With -watch the
targets stay watched and every changed description is compiled again until
the process is interrupted.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/renderpass/engine/assets"
	"github.com/spaghettifunk/renderpass/engine/core"
)

func main() {
	configPath := flag.String("config", "renderpass.toml", "configuration file")
	watch := flag.Bool("watch", false, "recompile descriptions when they change")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	cfg.Watch = cfg.Watch || *watch
	if err := cfg.Apply(); err != nil {
		core.LogFatal(err.Error())
	}

	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{cfg.DescriptionsDir}
	}

	lib, err := assets.NewLibrary(cfg.Watch, cfg.Workers)
	if err != nil {
		core.LogFatal(err.Error())
	}

	failed := false
	for _, target := range targets {
		if err := load(lib, target); err != nil {
			core.LogError(err.Error())
			failed = true
		}
	}
	for _, name := range lib.Names() {
		e, err := lib.Get(name)
		if err != nil {
			continue
		}
		printEntry(e)
	}

	compiled, failedCount := core.MetricsCompiled()
	core.LogInfo("%d render passes compiled, %d failed, %.3fms average", compiled, failedCount, core.MetricsCompileTime())

	if !cfg.Watch {
		_ = lib.Shutdown()
		if failed {
			os.Exit(1)
		}
		return
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		_ = lib.Shutdown()
	}()

	core.LogInfo("watching %v for changes", targets)
	for e := range lib.Events() {
		switch e.Kind {
		case assets.EVENT_LOADED:
			printEntry(e.Entry)
		case assets.EVENT_REMOVED:
			fmt.Printf("%s: removed\n", e.Path)
		}
	}
}

func load(lib *assets.Library, target string) error {
	fi, err := os.Stat(target)
	if err != nil {
		return errors.Wrapf(err, "%s", target)
	}
	if fi.IsDir() {
		return lib.Initialize(target)
	}
	_, err = lib.Load(target)
	return err
}

func printEntry(e *assets.Entry) {
	rp := e.Pass
	fmt.Printf("%s (%s): %d attachments, %d subpasses, %d dependencies, %d references, %d preserved\n",
		e.Name, e.Path,
		rp.Attachments().Len(), rp.Subpasses().Len(), rp.SubpassDependencies().Len(),
		rp.ReferencePoolSize(), rp.PreservePoolSize())
}
