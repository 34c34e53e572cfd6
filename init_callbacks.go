package main

import (
	"github.com/akinalp/gallery/pkg/metrics"
	"github.com/akinalp/gallery/ws"
)

// registerHubCallbacks, Hub olaylarını main'de diğer katmanlara bağlar.
// Hub metrics paketini bilmez; callback burada kurulur.
func registerHubCallbacks(hub *ws.Hub, serverMetrics *metrics.ServerMetrics) {
	if serverMetrics == nil {
		return
	}
	hub.OnConnectionsChanged(serverMetrics.SetOnlineClients)
}
