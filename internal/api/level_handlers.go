package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/annel0/blockslide/internal/app"
	"github.com/annel0/blockslide/internal/level"
	"github.com/annel0/blockslide/internal/storage"
)

// maxLiteralSize ограничение тела запроса импорта
const maxLiteralSize = 1 << 20

// MoveRequest запрос на ход
type MoveRequest struct {
	BlockID int `json:"block_id" binding:"required,min=1"`
}

// statusFor сопоставляет ошибку сервиса HTTP-статусу
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrLevelNotFound), errors.Is(err, level.ErrUnknownBlock):
		return http.StatusNotFound
	case errors.Is(err, app.ErrInvalidRequest), errors.Is(err, level.ErrInvalidLevel):
		return http.StatusBadRequest
	case errors.Is(err, level.ErrBlockInMotion), errors.Is(err, app.ErrLevelCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (rs *RestServer) fail(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		rs.log.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		message = "Внутренняя ошибка сервера"
	}
	c.JSON(status, GenericResponse{Success: false, Message: message})
}

func (rs *RestServer) handleListLevels(c *gin.Context) {
	levels, err := rs.levels.List(c.Request.Context())
	if err != nil {
		rs.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Список уровней",
		Data:    levels,
	})
}

// handleGenerateLevel тело запроса необязательно: пустое тело генерирует первый уровень
func (rs *RestServer) handleGenerateLevel(c *gin.Context) {
	var req app.GenerateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, GenericResponse{
				Success: false,
				Message: "Неверный формат запроса",
			})
			return
		}
	}

	view, err := rs.levels.Generate(c.Request.Context(), req)
	if err != nil {
		rs.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, GenericResponse{
		Success: true,
		Message: "Уровень сгенерирован",
		Data:    view,
	})
}

// handleImportLevel тело запроса - литерал уровня, номер в query ?number=
func (rs *RestServer) handleImportLevel(c *gin.Context) {
	number := 0
	if raw := c.Query("number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, GenericResponse{
				Success: false,
				Message: "Неверный номер уровня",
			})
			return
		}
		number = n
	}

	literal, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLiteralSize+1))
	if err != nil {
		rs.fail(c, err)
		return
	}
	if len(literal) > maxLiteralSize {
		c.JSON(http.StatusRequestEntityTooLarge, GenericResponse{
			Success: false,
			Message: "Слишком большой уровень",
		})
		return
	}

	view, err := rs.levels.Import(c.Request.Context(), literal, number)
	if err != nil {
		rs.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, GenericResponse{
		Success: true,
		Message: "Уровень импортирован",
		Data:    view,
	})
}

func (rs *RestServer) handleGetLevel(c *gin.Context) {
	view, err := rs.levels.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Уровень",
		Data:    view,
	})
}

// handleLevelLiteral отдаёт исходный набор блоков в формате литерала
func (rs *RestServer) handleLevelLiteral(c *gin.Context) {
	literal, err := rs.levels.Literal(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", literal)
}

func (rs *RestServer) handleDeleteLevel(c *gin.Context) {
	if err := rs.levels.Delete(c.Request.Context(), c.Param("id")); err != nil {
		rs.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Уровень удалён",
	})
}

func (rs *RestServer) handleMove(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	outcome, err := rs.levels.Move(c.Request.Context(), c.Param("id"), level.BlockID(req.BlockID))
	if err != nil {
		rs.fail(c, err)
		return
	}

	message := "Блок сдвинут"
	switch {
	case outcome.Completed:
		message = "Уровень пройден"
	case outcome.Removed:
		message = "Блок улетел"
	case !outcome.Changed:
		message = "Блок упёрся в препятствие"
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: message,
		Data:    outcome,
	})
}
