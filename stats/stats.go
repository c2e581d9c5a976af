// Package stats submits dispatch and gateway metrics to InfluxDB. All
// methods are safe to call on a nil *Client, so metrics can simply be left
// unconfigured.
package stats

import (
	"context"
	"os"
	"os/signal"
	"reflect"
	"runtime"
	"sync"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/starshine-sys/warden/common/log"
)

// Client is an InfluxDB client
type Client struct {
	Client api.WriteAPI

	cmdsMu sync.Mutex
	cmds   map[string]uint32

	eventsMu sync.Mutex
	events   map[string]uint32
}

// New creates a new client and starts its submit loop.
func New(url, token, organization, database string) *Client {
	c := &Client{
		cmds:   make(map[string]uint32),
		events: make(map[string]uint32),
	}

	c.Client = influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetBatchSize(20)).WriteAPI(organization, database)

	go c.submit()

	return c
}

// EventHandler counts Arikawa gateway events by type name.
func (c *Client) EventHandler(ev interface{}) {
	if c == nil {
		return
	}

	name := reflect.ValueOf(ev).Elem().Type().Name()

	c.eventsMu.Lock()
	c.events[name]++
	c.eventsMu.Unlock()
}

// IncCommand counts one dispatched command by outcome.
func (c *Client) IncCommand(outcome string) {
	if c == nil {
		return
	}

	c.cmdsMu.Lock()
	c.cmds[outcome]++
	c.cmdsMu.Unlock()
}

func (c *Client) submit() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt, os.Kill)
	defer stop()

	ticker := time.NewTicker(time.Minute)

	for {
		select {
		case <-ticker.C:
			go c.submitInner()
		case <-ctx.Done():
			ticker.Stop()
			c.Client.Flush()
			return
		}
	}
}

func (c *Client) submitInner() {
	log.Debug("submitting metrics to InfluxDB")

	now := time.Now()

	c.cmdsMu.Lock()
	cmds := make(map[string]interface{}, len(c.cmds))
	for k, v := range c.cmds {
		cmds[k] = v
		c.cmds[k] = 0
	}
	c.cmdsMu.Unlock()

	c.eventsMu.Lock()
	events := make(map[string]interface{}, len(c.events))
	for k, v := range c.events {
		events[k] = v
		c.events[k] = 0
	}
	c.eventsMu.Unlock()

	if len(cmds) > 0 {
		c.Client.WritePoint(influxdb2.NewPoint("commands", nil, cmds, now))
	}
	if len(events) > 0 {
		c.Client.WritePoint(influxdb2.NewPoint("events", nil, events, now))
	}

	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)

	system := map[string]interface{}{
		"alloc":       ms.Alloc,
		"sys":         ms.Sys,
		"total_alloc": ms.TotalAlloc,
		"goroutines":  runtime.NumGoroutine(),
	}

	sysMem, err := mem.VirtualMemory()
	if err != nil {
		log.Errorf("getting system memory: %v", err)
	} else {
		system["sys_used"] = sysMem.Used
		system["sys_used_percent"] = sysMem.UsedPercent
	}

	cpuData, err := cpu.Percent(0, false)
	if err != nil {
		log.Errorf("getting cpu usage: %v", err)
	} else if len(cpuData) > 0 {
		system["cpu_percent"] = cpuData[0]
	}

	c.Client.WritePoint(influxdb2.NewPoint("statistics", nil, system, now))
}
