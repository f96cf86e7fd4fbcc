package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forgeauth_http_requests_total",
		Help: "HTTP requests served, by method and status code.",
	}, []string{"method", "status"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forgeauth_auth_attempts_total",
		Help: "Authentication attempts, by flow and outcome.",
	}, []string{"flow", "outcome"})
)
