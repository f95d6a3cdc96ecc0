package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dferrand/caseops/internal/api"
	"github.com/dferrand/caseops/internal/config"
	"github.com/dferrand/caseops/internal/gateway"
	"github.com/dferrand/caseops/internal/identity"
	"github.com/dferrand/caseops/internal/service"
	"github.com/dferrand/caseops/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var st store.Store
	if cfg.DBSource == config.MemoryDBSource {
		log.Println("Using in-memory store")
		st = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(cfg.DBSource)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pg.Close()
		st = pg
	}

	// Initialize Layers
	gate := identity.New(st)
	if err := gate.Bootstrap(context.Background(), cfg.AdminPrincipal); err != nil {
		log.Fatalf("Admin bootstrap failed: %v", err)
	}
	gw := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayTimeout)
	svc := service.New(gate, st, gw)
	handler := api.NewHandler(svc)

	// Router
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	handler.Register(apiV1)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
