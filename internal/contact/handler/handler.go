// Package handler is the thin HTTP layer over the identity resolver. It owns
// request parsing and response envelopes; all domain logic stays in service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"contactgraph/internal/contact/models"
	"contactgraph/internal/platform/metrics"
	"contactgraph/internal/platform/middleware"
	dErrors "contactgraph/pkg/domain-errors"
)

// Service defines the resolver operations the HTTP layer consumes.
type Service interface {
	Resolve(ctx context.Context, email, phone *string) (*models.ConsolidatedIdentity, error)
	CreateStandalone(ctx context.Context, email, phone *string) (*models.Contact, error)
	ListAll(ctx context.Context) ([]*models.Contact, error)
}

// Handler handles the contact endpoints plus the informational routes.
type Handler struct {
	logger      *slog.Logger
	contacts    Service
	metrics     *metrics.Metrics
	development bool
	startedAt   time.Time
}

// New creates a new contact Handler. In development mode internal error
// detail is echoed to callers; production responses stay generic.
func New(contacts Service, logger *slog.Logger, m *metrics.Metrics, development bool) *Handler {
	return &Handler{
		logger:      logger,
		contacts:    contacts,
		metrics:     m,
		development: development,
		startedAt:   time.Now(),
	}
}

// Register mounts all routes with the shared middleware chain.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Post("/identify", h.handleIdentify)
	router.Route("/api/contacts", func(r chi.Router) {
		r.Get("/", h.handleListContacts)
		r.Post("/", h.handleCreateContact)
	})
	router.Get("/", h.handleRoot)
	router.Get("/health", h.handleHealth)
	router.Get("/api/test", h.handleAPITest)
	router.NotFound(h.handleNotFound)

	r.Mount("/", router)
}

// handleIdentify resolves the submitted pair into a consolidated identity.
func (h *Handler) handleIdentify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid identify request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	view, err := h.contacts.Resolve(ctx, req.EmailValue(), req.PhoneValue())
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "identify validation failed",
				"request_id", requestID,
			)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": dErrors.MessageOf(err)})
			return
		}
		h.logger.ErrorContext(ctx, "identify failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		body := map[string]string{"error": "Internal server error"}
		if h.development {
			body["details"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"contact": view})
}

// handleCreateContact creates or links a single contact row.
func (h *Handler) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid create contact request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	contact, err := h.contacts.CreateStandalone(ctx, req.EmailValue(), req.PhoneValue())
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": dErrors.MessageOf(err),
			})
			return
		}
		h.logger.ErrorContext(ctx, "create contact failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		body := map[string]any{
			"success": false,
			"message": "Failed to create contact",
		}
		if h.development {
			body["error"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Contact created successfully",
		"data":    map[string]any{"contact": contact},
	})
}

// handleListContacts returns every contact row.
func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.contacts.ListAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list contacts failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		body := map[string]any{
			"success": false,
			"message": "Failed to retrieve contacts",
		}
		if h.development {
			body["error"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Contacts retrieved successfully",
		"count":   len(rows),
		"data":    rows,
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	env := "production"
	if h.development {
		env = "development"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "contactgraph is running",
		"status":      "success",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": env,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"uptime":    time.Since(h.startedAt).Seconds(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleAPITest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "API endpoint is working!",
		"data": map[string]string{
			"server":   "chi",
			"database": "PostgreSQL",
			"status":   "connected",
		},
	})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"message": "Route not found",
		"path":    r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
