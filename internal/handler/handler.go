package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/festiplan/taskflow/internal/handler/dto"
	"github.com/festiplan/taskflow/internal/middleware"
	"github.com/festiplan/taskflow/internal/repository"
	"github.com/festiplan/taskflow/internal/service"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool              *pgxpool.Pool
	taskService       *service.TaskService
	workflowService   *service.WorkflowService
	assignmentService *service.AssignmentService
	resourceService   *service.ResourceService
	taskRepo          *repository.TaskRepository
	commentRepo       *repository.CommentRepository
	assignmentRepo    *repository.AssignmentRepository
	eventRepo         *repository.EventRepository
	authMiddleware    *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, notifier service.Notifier) *Handler {
	taskRepo := repository.NewTaskRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	taskService := service.NewTaskService(pool, taskRepo, eventRepo, userRepo, assignmentRepo, notifier)
	workflowService := service.NewWorkflowService(pool, taskRepo, assignmentRepo, eventRepo, notifier)
	assignmentService := service.NewAssignmentService(assignmentRepo, eventRepo, userRepo)
	resourceService := service.NewResourceService(resourceRepo, eventRepo, assignmentRepo)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	return &Handler{
		pool:              pool,
		taskService:       taskService,
		workflowService:   workflowService,
		assignmentService: assignmentService,
		resourceService:   resourceService,
		taskRepo:          taskRepo,
		commentRepo:       commentRepo,
		assignmentRepo:    assignmentRepo,
		eventRepo:         eventRepo,
		authMiddleware:    authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Tasks
	mux.Handle("POST /api/v1/tasks", h.auth(h.handleCreateTask))
	mux.Handle("GET /api/v1/tasks", h.auth(h.handleListTasks))
	mux.Handle("GET /api/v1/tasks/{id}", h.auth(h.handleGetTask))
	mux.Handle("PATCH /api/v1/tasks/{id}", h.auth(h.handleUpdateTask))
	mux.Handle("DELETE /api/v1/tasks/{id}", h.auth(h.handleDeleteTask))
	mux.Handle("POST /api/v1/tasks/{id}/assign", h.auth(h.handleAssignTask))

	// Workflow transitions
	mux.Handle("POST /api/v1/tasks/{id}/start", h.auth(h.handleStartTask))
	mux.Handle("POST /api/v1/tasks/{id}/submit", h.auth(h.handleSubmitTask))
	mux.Handle("POST /api/v1/tasks/{id}/approve", h.auth(h.handleApproveTask))
	mux.Handle("POST /api/v1/tasks/{id}/reject", h.auth(h.handleRejectTask))
	mux.Handle("POST /api/v1/tasks/{id}/resume", h.auth(h.handleResumeTask))
	mux.Handle("POST /api/v1/tasks/{id}/cancel", h.auth(h.handleCancelTask))

	// Comments
	mux.Handle("POST /api/v1/tasks/{id}/comments", h.auth(h.handleCommentTask))
	mux.Handle("GET /api/v1/tasks/{id}/comments", h.auth(h.handleListComments))
	mux.Handle("DELETE /api/v1/tasks/{id}/comments/{commentID}", h.auth(h.handleDeleteComment))

	// Moderator assignments
	mux.Handle("POST /api/v1/events/{id}/moderators", h.auth(h.handleInviteModerator))
	mux.Handle("GET /api/v1/events/{id}/moderators", h.auth(h.handleListModerators))
	mux.Handle("DELETE /api/v1/events/{id}/moderators/{moderatorID}", h.auth(h.handleRevokeModerator))

	// Resources
	mux.Handle("POST /api/v1/events/{id}/resources", h.auth(h.handleCreateResource))
	mux.Handle("GET /api/v1/events/{id}/resources", h.auth(h.handleListResources))
	mux.Handle("PATCH /api/v1/resources/{id}", h.auth(h.handleUpdateResource))

	// Reports
	mux.Handle("GET /api/v1/events/{id}/report", h.auth(h.handleEventReport))
}

// auth wraps a handler func with bearer authentication.
func (h *Handler) auth(fn http.HandlerFunc) http.Handler {
	return h.authMiddleware.Authenticate(fn)
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps an error kind to HTTP and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// extractID extracts and validates a UUID path parameter.
// Returns ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be a valid UUID")
		return "", false
	}

	return id, true
}
