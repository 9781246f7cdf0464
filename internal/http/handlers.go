// Package http exposes the engine's operation contracts over a thin JSON
// transport: run execution, proposal review, edits, approval, and retry.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/event-staffing/internal/application"
	"github.com/example/event-staffing/internal/staffing"
)

var errBadRequestBody = errors.New("invalid request body")

// RunHandler serves run execution and proposal listing.
type RunHandler struct {
	runs      *application.RunService
	proposals *application.ProposalService
	respond   responder
}

// NewRunHandler builds the handler.
func NewRunHandler(runs *application.RunService, proposals *application.ProposalService, logger *slog.Logger) *RunHandler {
	return &RunHandler{runs: runs, proposals: proposals, respond: newResponder(logger)}
}

type runResponse struct {
	RunID     string `json:"run_id"`
	Processed int    `json:"processed"`
	Scheduled int    `json:"scheduled"`
	Failed    int    `json:"failed"`
}

// Create executes one full wave pass.
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	result, err := h.runs.Run(r.Context())
	if err != nil {
		h.respond.handleServiceError(r.Context(), w, err)
		return
	}
	h.respond.writeJSON(r.Context(), w, http.StatusCreated, runResponse{
		RunID:     result.RunID,
		Processed: result.Processed,
		Scheduled: result.Scheduled,
		Failed:    result.Failed,
	})
}

type proposalResponse struct {
	ID             string `json:"id"`
	RunID          string `json:"run_id"`
	EventRef       string `json:"event_ref"`
	EventName      string `json:"event_name"`
	EventType      string `json:"event_type"`
	EmployeeID     string `json:"employee_id,omitempty"`
	StartsAt       string `json:"starts_at,omitempty"`
	Status         string `json:"status"`
	Reason         string `json:"reason,omitempty"`
	BumpedEventRef string `json:"bumped_event_ref,omitempty"`
	BumpReason     string `json:"bump_reason,omitempty"`
}

func toProposalResponse(p staffing.Proposal) proposalResponse {
	resp := proposalResponse{
		ID:             p.ID,
		RunID:          p.RunID,
		EventRef:       p.EventRef,
		EventName:      p.EventName,
		EventType:      string(p.EventType),
		EmployeeID:     p.EmployeeID,
		Status:         string(p.Status),
		Reason:         p.Reason,
		BumpedEventRef: p.BumpedEventRef,
		BumpReason:     p.BumpReason,
	}
	if !p.StartsAt.IsZero() {
		resp.StartsAt = p.StartsAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// ListProposals returns a run's output for operator review.
func (h *RunHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	proposals, err := h.proposals.ListPending(r.Context(), runID)
	if err != nil {
		h.respond.handleServiceError(r.Context(), w, err)
		return
	}
	out := make([]proposalResponse, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, toProposalResponse(p))
	}
	h.respond.writeJSON(r.Context(), w, http.StatusOK, out)
}

// ProposalHandler serves proposal edits, approval, and submission retry.
type ProposalHandler struct {
	proposals *application.ProposalService
	respond   responder
}

// NewProposalHandler builds the handler.
func NewProposalHandler(proposals *application.ProposalService, logger *slog.Logger) *ProposalHandler {
	return &ProposalHandler{proposals: proposals, respond: newResponder(logger)}
}

type editRequest struct {
	EmployeeID string `json:"employee_id"`
	StartsAt   string `json:"starts_at"`
}

// Edit replaces a proposal's assignment.
func (h *ProposalHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		h.respond.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	proposal, err := h.proposals.EditPending(r.Context(), id, req.EmployeeID, startsAt)
	if err != nil {
		h.respond.handleServiceError(r.Context(), w, err)
		return
	}
	h.respond.writeJSON(r.Context(), w, http.StatusOK, toProposalResponse(proposal))
}

type approveRequest struct {
	IDs []string `json:"ids"`
}

type commitResponse struct {
	Committed []string            `json:"committed"`
	Failed    []commitFailureItem `json:"failed,omitempty"`
}

type commitFailureItem struct {
	ProposalID string `json:"proposal_id"`
	Reason     string `json:"reason"`
}

// Approve commits a batch of proposals.
func (h *ProposalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		h.respond.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.proposals.Approve(r.Context(), req.IDs)
	if err != nil {
		h.respond.handleServiceError(r.Context(), w, err)
		return
	}

	resp := commitResponse{Committed: result.Committed}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, commitFailureItem{ProposalID: f.ProposalID, Reason: f.Reason})
	}
	h.respond.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// Retry re-submits an api_failed proposal.
func (h *ProposalHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	proposal, err := h.proposals.Retry(r.Context(), id)
	if err != nil {
		h.respond.handleServiceError(r.Context(), w, err)
		return
	}
	h.respond.writeJSON(r.Context(), w, http.StatusOK, toProposalResponse(proposal))
}
