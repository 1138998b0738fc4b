package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"echoform.io/feedback-hub/internal/config"
	"echoform.io/feedback-hub/internal/core"
	"echoform.io/feedback-hub/internal/store"
)

type APIHandler struct {
	projectService  *core.ProjectService
	feedbackService *core.FeedbackService
	insightService  *core.InsightService
}

func NewAPIHandler(ps *core.ProjectService, fs *core.FeedbackService, is *core.InsightService) *APIHandler {
	return &APIHandler{
		projectService:  ps,
		feedbackService: fs,
		insightService:  is,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

type SubmitFeedbackRequest struct {
	ProjectID string  `json:"project_id"`
	Content   string  `json:"content"`
	Rating    *int    `json:"rating,omitempty"`
	Email     *string `json:"email,omitempty"`
}

type SubmitFeedbackResponse struct {
	Success  bool                   `json:"success"`
	Feedback *store.Feedback        `json:"feedback"`
	Analysis *core.FeedbackAnalysis `json:"analysis"`
}

func (h *APIHandler) SubmitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.ProjectID == "" || req.Content == "" {
		respondError(w, http.StatusBadRequest, "Project ID and content are required")
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		respondError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	feedback, analysis, err := h.feedbackService.SubmitFeedback(r.Context(), req.ProjectID, req.Content, req.Rating, req.Email)
	if err != nil {
		log.Printf("Error submitting feedback for project %s: %v", req.ProjectID, err)
		respondError(w, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}

	respondJSON(w, http.StatusOK, SubmitFeedbackResponse{
		Success:  true,
		Feedback: feedback,
		Analysis: analysis,
	})
}

type ListFeedbackResponse struct {
	Success  bool             `json:"success"`
	Feedback []store.Feedback `json:"feedback"`
	Stats    core.Stats       `json:"stats"`
}

func (h *APIHandler) ListFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")
	if projectID == "" {
		respondError(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	feedback, stats, err := h.feedbackService.ListFeedback(projectID)
	if err != nil {
		log.Printf("Error fetching feedback for project %s: %v", projectID, err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch feedback")
		return
	}
	if feedback == nil {
		feedback = []store.Feedback{}
	}

	respondJSON(w, http.StatusOK, ListFeedbackResponse{
		Success:  true,
		Feedback: feedback,
		Stats:    stats,
	})
}

type InsightsRequest struct {
	ProjectID string `json:"projectId"`
	Question  string `json:"question,omitempty"`
}

type InsightsResponse struct {
	Success       bool                `json:"success"`
	Insights      *core.InsightReport `json:"insights"`
	FeedbackCount int                 `json:"feedbackCount"`
}

func (h *APIHandler) InsightsHandler(w http.ResponseWriter, r *http.Request) {
	var req InsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.ProjectID == "" {
		respondError(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	insights, count, err := h.insightService.GenerateProjectInsights(r.Context(), req.ProjectID, req.Question)
	if err != nil {
		log.Printf("Error generating insights for project %s: %v", req.ProjectID, err)
		respondError(w, http.StatusInternalServerError, "Failed to generate insights")
		return
	}

	respondJSON(w, http.StatusOK, InsightsResponse{
		Success:       true,
		Insights:      insights,
		FeedbackCount: count,
	})
}

type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	OwnerEmail  string  `json:"ownerEmail"`
	// Some clients send snake_case; both are accepted.
	OwnerEmailAlt string `json:"owner_email,omitempty"`
}

type ProjectResponse struct {
	Success bool           `json:"success"`
	Project *store.Project `json:"project"`
}

func (h *APIHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ownerEmail := req.OwnerEmail
	if ownerEmail == "" {
		ownerEmail = req.OwnerEmailAlt
	}
	if ownerEmail == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Project name is required")
		return
	}

	project, err := h.projectService.CreateProject(req.Name, req.Description, ownerEmail)
	if err != nil {
		log.Printf("Error creating project %q for %s: %v", req.Name, ownerEmail, err)
		respondError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	respondJSON(w, http.StatusCreated, ProjectResponse{Success: true, Project: project})
}

type FindProjectRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type FindProjectResponse struct {
	Success      bool           `json:"success"`
	Project      *store.Project `json:"project"`
	DashboardURL string         `json:"dashboardUrl"`
	FeedbackURL  string         `json:"feedbackUrl"`
}

func (h *APIHandler) FindProjectHandler(w http.ResponseWriter, r *http.Request) {
	var req FindProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Name == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Project name and email are required")
		return
	}

	project, err := h.projectService.FindProject(req.Name, req.Email)
	if err != nil {
		log.Printf("Error finding project %q for %s: %v", req.Name, req.Email, err)
		respondError(w, http.StatusInternalServerError, "Failed to find project")
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "Project not found. Please check your project name and email.")
		return
	}

	base := config.AppConfig.PublicURL
	respondJSON(w, http.StatusOK, FindProjectResponse{
		Success:      true,
		Project:      project,
		DashboardURL: base + "/dashboard/" + project.ID,
		FeedbackURL:  base + "/f/" + project.Slug,
	})
}

type UserProjectsRequest struct {
	Email string `json:"email"`
}

type UserProjectsResponse struct {
	Success  bool            `json:"success"`
	Projects []store.Project `json:"projects"`
}

func (h *APIHandler) UserProjectsHandler(w http.ResponseWriter, r *http.Request) {
	var req UserProjectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	projects, err := h.projectService.ListProjectsByOwner(req.Email)
	if err != nil {
		log.Printf("Error fetching projects for %s: %v", req.Email, err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	if projects == nil {
		projects = []store.Project{}
	}

	respondJSON(w, http.StatusOK, UserProjectsResponse{Success: true, Projects: projects})
}

// ProjectBySlugHandler resolves the public feedback form path.
func (h *APIHandler) ProjectBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, err := h.projectService.GetProjectBySlug(slug)
	if err != nil {
		log.Printf("Error resolving slug %q: %v", slug, err)
		respondError(w, http.StatusInternalServerError, "Failed to resolve project")
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	respondJSON(w, http.StatusOK, ProjectResponse{Success: true, Project: project})
}
