// Package rest exposes the board and card services over HTTP.
package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/model"
	"github.com/pinwall/pinwall/internal/service"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, boards service.BoardService, cards service.CardService, logger *zap.Logger) {
	e.GET("/healthz", healthz())

	e.GET("/api/boards", listBoards(boards, logger))
	e.POST("/api/boards", createBoard(boards, logger))
	e.GET("/api/boards/:id", getBoard(boards, logger))
	e.PATCH("/api/boards/:id", patchBoard(boards, logger))
	e.DELETE("/api/boards/:id", deleteBoard(boards, logger))

	e.GET("/api/boards/:id/cards", listCards(cards, logger))
	e.POST("/api/boards/:id/cards", createCard(cards, logger))
	e.GET("/api/cards/:id", getCard(cards, logger))
	e.PATCH("/api/cards/:id", patchCard(cards, logger))
	e.DELETE("/api/cards/:id", deleteCard(cards, logger))
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondErr maps service errors onto HTTP statuses: missing rows are 404,
// rejected input is 400, anything else is a logged 500.
func respondErr(c echo.Context, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrEmptyPatch),
		errors.Is(err, errs.ErrUnsupportedType),
		strings.HasPrefix(err.Error(), "validation:"):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func listBoards(boards service.BoardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		out, err := boards.List(c.Request().Context())
		if err != nil {
			return respondErr(c, logger, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

type createBoardRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func createBoard(boards service.BoardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createBoardRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		b, err := boards.Create(c.Request().Context(), req.Name, req.Description)
		if err != nil {
			return respondErr(c, logger, err)
		}
		return c.JSON(http.StatusCreated, b)
	}
}

func getBoard(boards service.BoardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		b, err := boards.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return respondErr(c, logger, err)
		}
		return c.JSON(http.StatusOK, b)
	}
}

func patchBoard(boards service.BoardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch model.BoardPatch
		if err := c.Bind(&patch); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		b, err := boards.Update(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return respondErr(c, logger, err)
		}
		return c.JSON(http.StatusOK, b)
	}
}

func deleteBoard(boards service.BoardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := boards.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return respondErr(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func listCards(cards service.CardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		out, err := cards.ListByBoard(c.Request().Context(), c.Param("id"))
		if err != nil {
			return respondErr(c, logger, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

type createCardRequest struct {
	Type      model.CardType `json:"type"`
	Title     *string        `json:"title"`
	Content   *string        `json:"content"`
	PositionX *float64       `json:"positionX"`
	PositionY *float64       `json:"positionY"`
	Width     *float64       `json:"width"`
	Height    *float64       `json:"height"`
	Color     *string        `json:"color"`
}

func createCard(cards service.CardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createCardRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if req.Type == "" || req.PositionX == nil || req.PositionY == nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "type and position are required"})
		}
		draft := model.CardDraft{
			Type:      req.Type,
			Title:     req.Title,
			Content:   req.Content,
			PositionX: *req.PositionX,
			PositionY: *req.PositionY,
			Height:    req.Height,
			Color:     req.Color,
		}
		if req.Width != nil {
			draft.Width = *req.Width
		}
		card, err := cards.Create(c.Request().Context(), c.Param("id"), draft)
		if err != nil {
			return respondErr(c, logger, err)
		}
		return c.JSON(http.StatusCreated, card)
	}
}

func getCard(cards service.CardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		card, err := cards.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return respondErr(c, logger, err)
		}
		return c.JSON(http.StatusOK, card)
	}
}

func patchCard(cards service.CardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch model.CardPatch
		if err := c.Bind(&patch); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		card, err := cards.Update(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return respondErr(c, logger, err)
		}
		return c.JSON(http.StatusOK, card)
	}
}

func deleteCard(cards service.CardService, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := cards.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return respondErr(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
