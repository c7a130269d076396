package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/planner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Generator produces plans. *planner.Planner satisfies it.
type Generator interface {
	Ready() error
	GeneratePlan(ctx context.Context, location, niche string, lang models.Language, onLog planner.LogFunc) (*models.BusinessPlan, error)
}

// Archiver stores a finished plan and returns its id.
type Archiver interface {
	Archive(ctx context.Context, plan *models.BusinessPlan) (string, error)
}

const usageHint = "Please tell me the niche and the location, for example \"Emergency Plumber in Milano it\". " +
	"Supported languages: en, it, es, fr, de."

type A2AHandler struct {
	generator Generator
	archiver  Archiver
	baseURL   string
}

// NewA2AHandler wires the blueprint skill. archiver may be nil.
func NewA2AHandler(generator Generator, archiver Archiver, baseURL string) *A2AHandler {
	return &A2AHandler{generator: generator, archiver: archiver, baseURL: baseURL}
}

// RequestLoggingMiddleware logs one line per A2A call.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("STATE: %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

// ServeAgentCard serves the agent card. The URL follows the request host
// unless a base URL was configured.
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	c.JSON(http.StatusOK, NewAgentCard(base))
}

// HandleBlueprint processes A2A messages.
func (h *A2AHandler) HandleBlueprint(c *gin.Context) {
	var rpcReq JSONRPCRequest
	if err := c.ShouldBindJSON(&rpcReq); err != nil {
		log.Printf("ERROR: Failed to decode request as JSON-RPC: %v", err)
		h.sendErrorResponse(c, nil, "Parse error", CodeParseError)
		return
	}

	if rpcReq.JSONRPC != "2.0" {
		log.Printf("WARN: Invalid JSON-RPC version: %s", rpcReq.JSONRPC)
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "message/send", "agent/task":
		h.handleTask(c, rpcReq)
	default:
		log.Printf("ERROR: Unknown method: %s", rpcReq.Method)
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

func (h *A2AHandler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	var msgParams MessageParams
	if err := json.Unmarshal(rpcReq.Params, &msgParams); err != nil {
		log.Printf("ERROR: Failed to unmarshal params: %v", err)
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	msg := msgParams.Message
	taskID := firstNonEmpty(msg.TaskID, uuid.NewString())
	contextID := firstNonEmpty(msg.ContextID, uuid.NewString())

	in, err := extractRequest(msg).Input()
	if err != nil {
		log.Printf("WARN: task %s: %v", taskID, err)
		h.sendSuccessResponse(c, rpcReq.ID, statusResult(taskID, contextID, StateInputRequired, err.Error()+". "+usageHint))
		return
	}

	if err := h.generator.Ready(); err != nil {
		log.Printf("ERROR: task %s: %v", taskID, err)
		h.sendSuccessResponse(c, rpcReq.ID, statusResult(taskID, contextID, StateFailed,
			"The blueprint service is not configured with a model API key."))
		return
	}

	log.Printf("STATE: task %s generating %q in %q (%s)", taskID, in.Niche, in.Location, in.Language)
	ctx := context.WithoutCancel(c.Request.Context())

	var progress []string
	plan, err := h.generator.GeneratePlan(ctx, in.Location, in.Niche, in.Language, func(e models.LogEntry) {
		progress = append(progress, fmt.Sprintf("[%s] %s", e.Type, e.Message))
	})
	if err != nil {
		log.Printf("ERROR: task %s: %v", taskID, err)
		result := statusResult(taskID, contextID, StateFailed, "Failed to generate plan. Please try again.")
		result.History = []A2AMessage{agentMessage(taskID, contextID, strings.Join(progress, "\n"))}
		h.sendSuccessResponse(c, rpcReq.ID, result)
		return
	}

	planID := ""
	if h.archiver != nil {
		if planID, err = h.archiver.Archive(ctx, plan); err != nil {
			log.Printf("WARN: task %s: archive plan: %v", taskID, err)
		}
	}

	log.Printf("STATE: task %s completed with %d site asset(s)", taskID, len(plan.SiteAssets))
	h.sendSuccessResponse(c, rpcReq.ID, completedResult(taskID, contextID, planID, plan))
}

func completedResult(taskID, contextID, planID string, plan *models.BusinessPlan) TaskResult {
	artifacts := make([]Artifact, 0, len(plan.SiteAssets)+1)
	artifacts = append(artifacts, Artifact{
		ArtifactID: uuid.NewString(),
		Name:       "business-plan.json",
		Parts:      []MessagePart{DataPart(plan)},
	})
	for _, f := range plan.SiteAssets {
		artifacts = append(artifacts, Artifact{
			ArtifactID:  uuid.NewString(),
			Name:        f.Path,
			Description: f.Description,
			Parts:       []MessagePart{TextPart(f.Content)},
		})
	}

	msg := agentMessage(taskID, contextID, FormatPlan(plan, planID))
	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message:   &msg,
		},
		Artifacts: artifacts,
	}
}

func statusResult(taskID, contextID, state, text string) TaskResult {
	msg := agentMessage(taskID, contextID, text)
	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     state,
			Timestamp: Timestamp(),
			Message:   &msg,
		},
	}
}

func agentMessage(taskID, contextID, text string) A2AMessage {
	return A2AMessage{
		Kind:      "message",
		Role:      RoleAgent,
		MessageID: uuid.NewString(),
		TaskID:    taskID,
		ContextID: contextID,
		Parts:     []MessagePart{TextPart(text)},
	}
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id any, result TaskResult) {
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// JSON-RPC errors are sent with 200 OK.
func (h *A2AHandler) sendErrorResponse(c *gin.Context, id any, message string, code int) {
	log.Printf("WARN: rpc error %d: %s", code, message)
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
