package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seagrayinc/antremote/internal/antusb"
	"github.com/seagrayinc/antremote/internal/config"
	"github.com/seagrayinc/antremote/internal/logging"
	"github.com/seagrayinc/antremote/pkg/ant"
	"github.com/seagrayinc/antremote/pkg/remote"
)

var _ ant.Handler = (*remote.Session)(nil)

func main() {
	configPath := flag.String("config", "", "path to a .yaml or .toml config file")
	profileName := flag.String("profile", "", "remote profile, overrides the config file")
	listDevices := flag.Bool("list", false, "list attached ANT USB sticks and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *profileName != "" {
		cfg.Profile = *profileName
		config.Normalize(cfg)
		if err := config.Validate(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	logging.Configure(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if *listDevices {
		if err := list(cfg); err != nil {
			slog.Error("listing devices failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("remote session failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func list(cfg *config.Config) error {
	infos, err := antusb.List(cfg.Device.VendorID, cfg.Device.ProductIDs...)
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Println(info)
	}
	return nil
}

func run(ctx context.Context, cfg *config.Config) error {
	profile, err := remote.LookupProfile(cfg.Profile)
	if err != nil {
		return err
	}

	stick, err := antusb.Open(cfg.Device.VendorID, cfg.Device.ProductIDs...)
	if err != nil {
		return err
	}
	slog.Info("opened ANT stick", slog.String("device", stick.Info.String()))

	// The read loop outlives ctx so the channel can still be closed after a
	// signal; closing the device stops it.
	loopCtx, cancelLoop := context.WithCancel(context.Background())
	defer cancelLoop()

	node := ant.NewNode(stick)
	node.ResponseTimeout = cfg.ResponseTimeout.Std()
	node.Start(loopCtx)
	defer func() {
		if err := node.Close(); err != nil {
			slog.Warn("failed to close device", slog.Any("error", err))
		}
		<-node.Done()
	}()

	session := remote.NewSession(profile, &remote.ConsoleReporter{W: os.Stdout})

	fmt.Println("Opening ANT+ Channel ...")
	if err := node.Reset(ctx); err != nil {
		return err
	}
	if err := node.SetNetworkKey(ctx, cfg.Network.Number, cfg.NetworkKey()); err != nil {
		return err
	}
	if err := node.OpenChannel(ctx, cfg.ANTChannel(), session); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-node.Done():
		if err := node.Err(); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("device stopped: %w", err)
		}
		return nil
	}

	fmt.Println("Closing ANT+ Channel ...")
	closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := node.CloseChannel(closeCtx); err != nil {
		slog.Warn("failed to close channel", slog.Any("error", err))
	}
	return nil
}
