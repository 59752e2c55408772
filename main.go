package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/moyoez/risport-go/api"
	"github.com/moyoez/risport-go/api/models"
	"github.com/moyoez/risport-go/api/notifyhub"
	"github.com/moyoez/risport-go/monitor"
	"github.com/moyoez/risport-go/notify"
	"github.com/moyoez/risport-go/ris"
	"github.com/moyoez/risport-go/tool"
	"github.com/moyoez/risport-go/types"
)

func main() {
	cfg := tool.SetFlags()
	tool.InitLogger()
	tool.SetLogMode(cfg.Log)

	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyFlags(&appCfg, cfg)
	tool.SetCurrentConfig(appCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := ris.NewClient(appCfg.RequestsPerMinute)
	models.SetRISClient(client)

	switch {
	case cfg.Probe:
		result, err := tool.Probe(appCfg.Host, 2*time.Second)
		if err != nil {
			tool.DefaultLogger.Fatalf("%v", err)
		}
		if err := writeJSON(os.Stdout, result); err != nil {
			tool.DefaultLogger.Fatalf("%v", err)
		}
		return
	case cfg.Query != "":
		if err := runQuery(ctx, client, appCfg, cfg, os.Stdout); err != nil {
			tool.DefaultLogger.Errorf("%v", err)
			os.Exit(1)
		}
		return
	}

	if !appCfg.Gateway.Enabled && !appCfg.Monitor.Enabled {
		tool.DefaultLogger.Warn("Nothing to do: pass -query, -probe, -useGateway or -useMonitor")
		return
	}

	if appCfg.Gateway.Enabled {
		hub := notifyhub.New()
		models.SetNotifyHub(hub)
		notify.SetHub(hub)

		server := api.NewServer(appCfg.Gateway.Port)
		go func() {
			if err := server.Start(); err != nil {
				tool.DefaultLogger.Fatalf("Gateway startup failed: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				tool.DefaultLogger.Errorf("Gateway shutdown failed: %v", err)
			}
		}()
	}

	if appCfg.Monitor.Enabled {
		go func() {
			if err := monitor.Run(ctx, client); err != nil {
				tool.DefaultLogger.Errorf("%v", err)
			}
		}()
	}

	<-ctx.Done()
	tool.DefaultLogger.Info("Shutting down")
}

// runQuery performs the one-shot query named by -query and prints the result as JSON.
func runQuery(ctx context.Context, client *ris.Client, appCfg types.AppConfig, flags types.Config, w io.Writer) error {
	switch strings.ToLower(flags.Query) {
	case "devices":
		criteria := types.DefaultQueryCriteria(tool.SplitList(flags.Items)...)
		if flags.SelectBy != "" {
			criteria.SelectBy = types.SelectBy(flags.SelectBy)
		}
		if flags.DeviceClass != "" {
			criteria.DeviceClass = types.DeviceClass(flags.DeviceClass)
		}
		criteria.NodeName = flags.NodeName
		groups, err := client.SelectCmDeviceExt(ctx, appCfg.ClientConfig(), criteria)
		if err != nil {
			return err
		}
		return writeJSON(w, groups)
	case "servers":
		query := types.ServerQuery{Hosts: tool.SplitList(flags.Hosts)}
		records, err := client.GetServerInfo(ctx, appCfg.ClientConfig(), query)
		if err != nil {
			return err
		}
		return writeJSON(w, records)
	default:
		return fmt.Errorf("unknown query %q: use devices or servers", flags.Query)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %v", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
