// Package monitor polls device status on an interval and reports changes through share.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/moyoez/risport-go/notify"
	"github.com/moyoez/risport-go/ris"
	"github.com/moyoez/risport-go/share"
	"github.com/moyoez/risport-go/tool"
	"github.com/moyoez/risport-go/types"
)

// DefaultInterval is used when the configured interval is not positive.
const DefaultInterval = 60 * time.Second

const probeTimeout = time.Second

// Querier is the part of ris.Client the monitor needs.
type Querier interface {
	SelectCmDeviceExt(ctx context.Context, cfg types.ClientConfig, criteria types.QueryCriteria) ([]types.ServerGroup, error)
}

// Status describes the monitor for the gateway.
type Status struct {
	Running   bool      `json:"running"`
	Polls     int       `json:"polls"`
	LastPoll  time.Time `json:"last_poll,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	Devices   int       `json:"devices"`
}

var (
	controlMu sync.Mutex
	running   bool
	pollNowCh = make(chan struct{}, 1)

	stateMu   sync.RWMutex
	polls     int
	lastPoll  time.Time
	lastError string
)

// Run polls until ctx is done. The first successful poll only fills the status table;
// devices that show up in later polls are announced. Each poll is one query with no retry.
func Run(ctx context.Context, q Querier) error {
	controlMu.Lock()
	if running {
		controlMu.Unlock()
		return fmt.Errorf("monitor is already running")
	}
	running = true
	controlMu.Unlock()
	defer func() {
		controlMu.Lock()
		running = false
		controlMu.Unlock()
	}()

	interval := currentInterval()
	if interval >= share.DefaultTTL {
		tool.DefaultLogger.Warnf("Monitor interval %v is not shorter than the status TTL %v; devices will be re-announced", interval, share.DefaultTTL)
	}
	tool.DefaultLogger.Infof("Starting device monitor (polling every %v)", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p := &poller{}
	p.poll(ctx, q)
	for {
		select {
		case <-ctx.Done():
			tool.DefaultLogger.Info("Device monitor stopped")
			return nil
		case <-pollNowCh:
			p.poll(ctx, q)
		case <-ticker.C:
			p.poll(ctx, q)
			if next := currentInterval(); next != interval {
				tool.DefaultLogger.Infof("Monitor interval changed: %v -> %v", interval, next)
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

// poller announces new devices only once a poll has succeeded and filled the table.
type poller struct {
	seeded bool
}

func (p *poller) poll(ctx context.Context, q Querier) {
	if _, err := PollOnce(ctx, q, p.seeded); err == nil {
		p.seeded = true
	}
}

// PollOnce runs a single device query with the current config and records the result.
// It returns how many devices were new or changed.
func PollOnce(ctx context.Context, q Querier, announceNew bool) (int, error) {
	cfg := tool.GetCurrentConfig()
	criteria := cfg.Monitor.Criteria.WithDefaults()

	groups, err := q.SelectCmDeviceExt(ctx, cfg.ClientConfig(), criteria)

	stateMu.Lock()
	polls++
	lastPoll = time.Now()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
	stateMu.Unlock()

	if err != nil {
		tool.DefaultLogger.Warnf("Device monitor poll failed: %v", err)
		data := map[string]any{"kind": ris.KindOf(err).String()}
		if ris.KindOf(err) == ris.KindTransport && cfg.Host != "" {
			reachable := tool.QuickICMPProbe(cfg.Host, probeTimeout)
			data["host_reachable"] = reachable
			tool.DefaultLogger.Infof("Cluster host %s answers ICMP: %v", cfg.Host, reachable)
		}
		if nErr := notify.SendNotification(&types.Notification{
			Type:    types.NotifyTypeMonitorError,
			Title:   "Device Monitor Error",
			Message: err.Error(),
			Data:    data,
		}, cfg.NotifySocket); nErr != nil {
			tool.DefaultLogger.Debugf("Failed to send monitor notification: %v", nErr)
		}
		return 0, err
	}

	changed := 0
	for _, item := range share.StatusItemsFromGroups(groups) {
		if share.SetDeviceStatus(item, announceNew) {
			changed++
		}
	}
	tool.DefaultLogger.Debugf("Device monitor poll: %d group(s), %d new or changed", len(groups), changed)
	return changed, nil
}

// TriggerPoll asks a running monitor to poll now. It returns false if a poll is already queued.
func TriggerPoll() bool {
	select {
	case pollNowCh <- struct{}{}:
		return true
	default:
		return false
	}
}

func IsRunning() bool {
	controlMu.Lock()
	defer controlMu.Unlock()
	return running
}

func GetStatus() Status {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return Status{
		Running:   IsRunning(),
		Polls:     polls,
		LastPoll:  lastPoll,
		LastError: lastError,
		Devices:   len(share.ListDeviceStatus()),
	}
}

func currentInterval() time.Duration {
	seconds := tool.GetCurrentConfig().Monitor.IntervalSeconds
	if seconds <= 0 {
		return DefaultInterval
	}
	return time.Duration(seconds) * time.Second
}
