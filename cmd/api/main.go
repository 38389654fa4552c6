package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"sales-profiler-go/internal/extractor"
	"sales-profiler-go/internal/insights"
	"sales-profiler-go/internal/logger"
	"sales-profiler-go/internal/report"
	"sales-profiler-go/internal/session"
	"sales-profiler-go/internal/types"
)

type analyzeRequest struct {
	Transcript          string   `json:"transcript"`
	AnsweredQuestionIDs []string `json:"answered_question_ids,omitempty"`
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "sales-profiler-go").Info("starting service")

	redisAddr := envOr("REDIS_ADDR", "localhost:6379")
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).WithField("redis_addr", redisAddr).Fatal("failed to connect to redis")
	}
	log.WithField("redis_addr", redisAddr).Info("redis connected")

	store := session.NewStore(client)
	manager := session.NewManager(store)

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// fuse one conversation fragment into a session profile
	mux.HandleFunc("POST /sessions/{id}/analyze", func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		reqLog := logger.New().WithRequest(r).WithField("handler", "analyze").WithField("session_id", sessionID)
		reqLog.Info("analyze request received")

		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Transcript == "" {
			reqLog.Warn("missing transcript")
			http.Error(w, "missing transcript", http.StatusBadRequest)
			return
		}

		st, err := store.Get(r.Context(), sessionID)
		if err != nil {
			reqLog.WithError(err).Error("session load failed")
			http.Error(w, "session load failed", http.StatusInternalServerError)
			return
		}
		var priorProfile *types.CumulativeProfile
		if st != nil {
			priorProfile = st.Profile
		}

		start := time.Now()
		raw, llmErr := extractor.Analyze(req.Transcript, priorProfile)
		if llmErr != nil {
			reqLog.WithError(llmErr).Warn("llm assessment failed, fusing fallback")
		}

		res, err := manager.ApplyAssessment(r.Context(), sessionID, raw, llmErr, req.AnsweredQuestionIDs)
		if err != nil {
			reqLog.WithError(err).Error("fusion persist failed")
			http.Error(w, "fusion persist failed", http.StatusInternalServerError)
			return
		}
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("fusion finished")

		writeJSON(w, res, reqLog)
	})

	// read a session profile
	mux.HandleFunc("GET /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		reqLog := logger.New().WithRequest(r).WithField("handler", "session").WithField("session_id", sessionID)

		st, err := store.Get(r.Context(), sessionID)
		if err != nil {
			reqLog.WithError(err).Error("session load failed")
			http.Error(w, "session load failed", http.StatusInternalServerError)
			return
		}
		if st == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		writeJSON(w, st, reqLog)
	})

	// fleet-level insights across all sessions
	mux.HandleFunc("GET /insights", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "insights")

		states, err := store.List(r.Context())
		if err != nil {
			reqLog.WithError(err).Error("session list failed")
			http.Error(w, "session list failed", http.StatusInternalServerError)
			return
		}
		ins := insights.Aggregate(states)
		writeJSON(w, map[string]any{
			"insight":     ins,
			"action_card": insights.Generate(ins),
		}, reqLog)
	})

	// export the session report workbook
	mux.HandleFunc("POST /report", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "report")

		states, err := store.List(r.Context())
		if err != nil {
			reqLog.WithError(err).Error("session list failed")
			http.Error(w, "session list failed", http.StatusInternalServerError)
			return
		}
		path := envOr("REPORT_PATH", "sessions_report.xlsx")
		if err := report.Write(path, states); err != nil {
			reqLog.WithError(err).Error("report export failed")
			http.Error(w, "report export failed", http.StatusInternalServerError)
			return
		}
		reqLog.WithField("path", path).WithField("sessions", len(states)).Info("report exported")
		writeJSON(w, map[string]any{"path": path, "sessions": len(states)}, reqLog)
	})

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func writeJSON(w http.ResponseWriter, v any, log *logrus.Entry) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.WithField("error", err.Error()).Error("failed to write response")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
