package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChapterDesk/chapterdesk-go/internal/application/services"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/performance"
)

// VotingHandlers contains the voting action handlers.
type VotingHandlers struct {
	votingService *services.VotingService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewVotingHandlers creates voting handlers with injected dependencies.
func NewVotingHandlers(votingService *services.VotingService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *VotingHandlers {
	return &VotingHandlers{
		votingService: votingService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

type castVoteRequest struct {
	SessionID   string `json:"sessionId" binding:"required"`
	CandidateID string `json:"candidateId" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Verdict     *bool  `json:"verdict" binding:"required"`
	Reason      string `json:"reason"`
}

// CastVote handles POST /api/v1/voting/votes
func (h *VotingHandlers) CastVote(c *gin.Context) {
	marker := h.perfTracker.StartOperation("cast_vote")
	defer marker.Complete()

	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vote, err := h.votingService.CastVote(c.Request.Context(), req.SessionID, req.CandidateID, req.Email, *req.Verdict, req.Reason)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vote)
}

type multiBallotRequest struct {
	SessionID    string   `json:"sessionId" binding:"required"`
	Email        string   `json:"email" binding:"required"`
	CandidateIDs []string `json:"candidateIds" binding:"required"`
}

// CastMultiBallot handles POST /api/v1/voting/ballots
func (h *VotingHandlers) CastMultiBallot(c *gin.Context) {
	marker := h.perfTracker.StartOperation("cast_multi_ballot")
	defer marker.Complete()

	var req multiBallotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	votes, err := h.votingService.CastMultiBallot(c.Request.Context(), req.SessionID, req.Email, req.CandidateIDs)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, votes)
}

type startSessionRequest struct {
	OperatorEmail string `json:"operatorEmail" binding:"required"`
}

// StartSession handles POST /api/v1/voting/sessions/:id/start
func (h *VotingHandlers) StartSession(c *gin.Context) {
	marker := h.perfTracker.StartOperation("start_session")
	defer marker.Complete()

	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.votingService.StartSession(c.Request.Context(), c.Param("id"), req.OperatorEmail)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// StopSession handles POST /api/v1/voting/sessions/:id/stop
func (h *VotingHandlers) StopSession(c *gin.Context) {
	marker := h.perfTracker.StartOperation("stop_session")
	defer marker.Complete()

	session, err := h.votingService.StopSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// AdvanceSession handles POST /api/v1/voting/sessions/:id/advance
func (h *VotingHandlers) AdvanceSession(c *gin.Context) {
	marker := h.perfTracker.StartOperation("advance_session")
	defer marker.Complete()

	session, err := h.votingService.AdvanceSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
