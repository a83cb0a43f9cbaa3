package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/flowwed/emily/pkg/chat"
	"github.com/flowwed/emily/pkg/llm"
	"github.com/flowwed/emily/pkg/utils"
)

// genericErrorReply is the only error text the wire ever carries; internal
// detail stays in the server logs.
const genericErrorReply = "Backend error"

// chatRequest is the POST /chat body. Text may be omitted entirely, which
// triggers the greeting branch.
type chatRequest struct {
	Text string `json:"text"`
}

// chatResponse is the POST /chat reply envelope.
type chatResponse struct {
	Reply string `json:"reply"`
}

// handleStatus returns a simple health check response.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "emily",
		"version": utils.Version,
		"status":  "ok",
	})
}

// handleChat runs one chat turn. Identity rides in query parameters: token,
// page, and the session disambiguator "_", each falling back to a default
// when absent.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(chatResponse{Reply: genericErrorReply})
		}
	}

	in := chat.Input{
		Token:     c.Query("token"),
		Page:      c.Query("page"),
		SessionID: c.Query("_"),
		Text:      req.Text,
	}

	reply, err := s.orch.Respond(c.Context(), in)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, llm.ErrCompletion) {
			status = fiber.StatusBadGateway
		}
		s.logger.Error("chat turn failed",
			zap.String("token", in.Token),
			zap.String("page", in.Page),
			zap.Error(err),
		)
		return c.Status(status).JSON(chatResponse{Reply: genericErrorReply})
	}

	s.logger.Debug("chat turn served",
		zap.String("token", in.Token),
		zap.String("page", in.Page),
		zap.String("reply", utils.Truncate(reply, 80)),
	)

	return c.JSON(chatResponse{Reply: reply})
}
