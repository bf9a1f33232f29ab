package server

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/mentor/pkg/llm"
	"github.com/papercomputeco/mentor/pkg/merkle"
)

// IngestResponse reports the outcome of a node upload.
type IngestResponse struct {
	New       int `json:"new"`
	Duplicate int `json:"duplicate"`
	Errors    int `json:"errors"`
}

// handleIngestNodes stores archived nodes pushed from another mentor archive.
// Nodes whose hash does not match their content are counted as errors and skipped.
func (s *Server) handleIngestNodes(c *fiber.Ctx) error {
	var nodes []*merkle.Node
	if err := json.Unmarshal(c.Body(), &nodes); err != nil {
		return badRequest(c, "invalid request body")
	}

	var resp IngestResponse
	for _, node := range nodes {
		if node == nil || !node.Verify() {
			resp.Errors++
			continue
		}

		isNew, err := s.storer.Put(c.Context(), node)
		if err != nil {
			s.logger.Error("failed to store pushed node", zap.String("hash", node.Hash), zap.Error(err))
			resp.Errors++
			continue
		}
		if isNew {
			resp.New++
			s.metrics.archived.Inc()
		} else {
			resp.Duplicate++
		}
	}

	s.logger.Info("archive nodes ingested",
		zap.Int("new", resp.New),
		zap.Int("duplicate", resp.Duplicate),
		zap.Int("errors", resp.Errors),
	)

	if len(nodes) > 0 && resp.Errors == len(nodes) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(llm.ErrorResponse{Error: "no valid nodes"})
	}
	return c.JSON(resp)
}
