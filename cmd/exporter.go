package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/danbovey/blink-camera-system/pkg/client"
)

var exporterPort string

// --- COLLECTOR ---

// BlinkCollector scrapes the home summary on every /metrics pull.
type BlinkCollector struct {
	Client *client.Client
	Mutex  sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"blink_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"blink_scrape_duration_seconds", "Time taken to scrape the API.", nil, nil,
	)
	cameraUpDesc = prometheus.NewDesc(
		"blink_camera_up", "Camera status (1=done/online).", []string{"id", "name", "type", "network"}, nil,
	)
	cameraEnabledDesc = prometheus.NewDesc(
		"blink_camera_motion_enabled", "Motion detection enabled.", []string{"id", "name"}, nil,
	)
	cameraWifiDesc = prometheus.NewDesc(
		"blink_camera_wifi_signal", "WiFi signal strength bars.", []string{"id", "name"}, nil,
	)
	cameraTempDesc = prometheus.NewDesc(
		"blink_camera_temperature", "Camera temperature reading.", []string{"id", "name"}, nil,
	)
	networkArmedDesc = prometheus.NewDesc(
		"blink_network_armed", "Network armed state.", []string{"id", "name"}, nil,
	)
	syncModuleOnlineDesc = prometheus.NewDesc(
		"blink_sync_module_online", "Sync module online state.", []string{"network"}, nil,
	)
)

func (c *BlinkCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- cameraUpDesc
	ch <- cameraEnabledDesc
	ch <- cameraWifiDesc
	ch <- cameraTempDesc
	ch <- networkArmedDesc
	ch <- syncModuleOnlineDesc
}

func (c *BlinkCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()
	success := 1.0

	home, err := c.Client.FetchSummary(context.Background())
	if err != nil {
		log.Printf("Error scraping summary: %v", err)
		ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, 0)
		ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
		return
	}

	for _, n := range home.Networks {
		armed := 0.0
		if n.Armed {
			armed = 1.0
		}
		ch <- prometheus.MustNewConstMetric(networkArmedDesc, prometheus.GaugeValue, armed,
			strconv.Itoa(n.ID), n.Name)
	}
	for _, sm := range home.SyncModules {
		online := 0.0
		if sm.Status == "online" {
			online = 1.0
		}
		ch <- prometheus.MustNewConstMetric(syncModuleOnlineDesc, prometheus.GaugeValue, online,
			strconv.Itoa(sm.NetworkID))
	}
	for _, cam := range append(home.Cameras, home.Owls...) {
		id := strconv.Itoa(cam.ID)
		up := 0.0
		if cam.Status == "done" || cam.Status == "online" {
			up = 1.0
		}
		ch <- prometheus.MustNewConstMetric(cameraUpDesc, prometheus.GaugeValue, up,
			id, cam.Name, cam.Type, strconv.Itoa(cam.NetworkID))

		enabled := 0.0
		if cam.Enabled {
			enabled = 1.0
		}
		ch <- prometheus.MustNewConstMetric(cameraEnabledDesc, prometheus.GaugeValue, enabled, id, cam.Name)
		ch <- prometheus.MustNewConstMetric(cameraWifiDesc, prometheus.GaugeValue, float64(cam.Signals.WiFi), id, cam.Name)
		ch <- prometheus.MustNewConstMetric(cameraTempDesc, prometheus.GaugeValue, float64(cam.Signals.Temp), id, cam.Name)
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start a Prometheus exporter for camera and network state",
	Long: `Starts a long-running HTTP server that exposes camera status,
battery, wifi, armed state, and sync module health as Prometheus
metrics. The summary is fetched fresh on every scrape.`,
	Run: func(cmd *cobra.Command, args []string) {
		api, err := sessionClient()
		if err != nil {
			log.Fatal(err)
		}
		if err := api.Init(context.Background(), ""); err != nil {
			log.Fatalf("Fatal: initial setup failed: %v", err)
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(&BlinkCollector{Client: api})

		handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			ErrorLog: log.Default(),
		})
		mux := http.NewServeMux()
		mux.Handle("/metrics", handler)

		addr := fmt.Sprintf(":%s", exporterPort)
		log.Printf("Blink exporter listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&exporterPort, "port", "9101", "Port to listen on")
}
