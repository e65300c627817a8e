package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reviewscout/enrich-cli/internal/enrich"
	"github.com/reviewscout/enrich-cli/internal/history"
	"github.com/reviewscout/enrich-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the enrichment HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openHistory(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		enricher, opts := buildEnricher(cfg)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(enricher, opts, st),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(enricher *enrich.Enricher, opts enrich.Options, st history.Store) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/enrich", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Businesses   []model.BusinessRecord `json:"businesses"`
			ExtractionID string                 `json:"extractionId"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		records := body.Businesses
		if body.ExtractionID != "" {
			ex, err := st.Load(req.Context(), body.ExtractionID)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "load extraction"})
				return
			}
			if ex == nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "extraction not found"})
				return
			}
			records = ex.Businesses
		}
		if len(records) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "businesses or extractionId is required"})
			return
		}

		result, err := enricher.Enrich(req.Context(), records, opts)
		if err != nil {
			zap.L().Error("api enrichment failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "enrichment failed"})
			return
		}

		if body.ExtractionID != "" {
			if err := st.UpdateEnrichment(req.Context(), body.ExtractionID, result.Businesses, result.Stats); err != nil {
				zap.L().Error("api extraction update failed",
					zap.String("extraction_id", body.ExtractionID),
					zap.Error(err),
				)
			}
		}

		writeJSON(w, http.StatusOK, result)
	})

	r.Get("/api/extractions", func(w http.ResponseWriter, req *http.Request) {
		limit := 20
		if raw := req.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
				return
			}
			limit = n
		}

		extractions, err := st.List(req.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list extractions"})
			return
		}
		writeJSON(w, http.StatusOK, extractions)
	})

	r.Get("/api/extractions/{id}", func(w http.ResponseWriter, req *http.Request) {
		ex, err := st.Load(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "load extraction"})
			return
		}
		if ex == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "extraction not found"})
			return
		}
		writeJSON(w, http.StatusOK, ex)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
