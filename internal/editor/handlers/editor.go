package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"focuspoint-editor/internal/editor/fields"
	"focuspoint-editor/internal/editor/interaction"
	"focuspoint-editor/internal/editor/models"
	"focuspoint-editor/internal/editor/repository"
	"focuspoint-editor/internal/editor/service"
	"focuspoint-editor/internal/editor/store"
	"focuspoint-editor/internal/processor"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Editor Handler
// ============================================================

type EditorHandler struct {
	registry *service.Registry
	hidden   service.HiddenFields
	logger   *slog.Logger
}

func NewEditorHandler(registry *service.Registry, hidden service.HiddenFields, logger *slog.Logger) *EditorHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EditorHandler{
		registry: registry,
		hidden:   hidden,
		logger:   logger,
	}
}

func (h *EditorHandler) Register(r fiber.Router) {
	r.Post("/editors", h.Mount)
	r.Get("/editors/:id", h.GetEditor)
	r.Delete("/editors/:id", h.Unmount)
	r.Put("/editors/:id/frame", h.ObserveFrame)
	r.Post("/editors/:id/areas", h.AddArea)
	r.Delete("/editors/:id/areas/:index", h.RemoveArea)
	r.Post("/editors/:id/areas/:index/activate", h.ActivateArea)
	r.Post("/editors/:id/areas/:index/toggle", h.ToggleArea)
	r.Put("/editors/:id/areas/:index/fields/:name", h.SetField)
	r.Put("/editors/:id/areas/:index/points", h.SetPoints)
	r.Post("/editors/:id/gestures", h.Gesture)

	r.Post("/forms/:name/save", h.Save)
	r.Get("/forms/:name", h.GetForm)
	r.Get("/forms/:name/points", h.GetPoints)
}

type addAreaRequest struct {
	Shape models.Shape `json:"shape"`
}

type fieldRequest struct {
	Value *string `json:"value"`
}

type pointsRequest struct {
	Path string `json:"path"`
}

// Mount starts an editor on a hidden field.
func (h *EditorHandler) Mount(c fiber.Ctx) error {
	var req service.MountRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	e, err := h.registry.Mount(c.Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(e.View())
}

func (h *EditorHandler) GetEditor(c fiber.Ctx) error {
	e, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(e.View())
}

func (h *EditorHandler) Unmount(c fiber.Ctx) error {
	if err := h.registry.Unmount(c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ObserveFrame records the measured canvas size. It settles asynchronously.
func (h *EditorHandler) ObserveFrame(c fiber.Ctx) error {
	e, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	var frame models.Frame
	if err := decodeBody(c, &frame); err != nil {
		return badRequest(c, err.Error())
	}
	if !frame.Valid() {
		return badRequest(c, "width and height must be positive")
	}
	e.ObserveFrame(frame)
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"status": "observed"})
}

func (h *EditorHandler) AddArea(c fiber.Ctx) error {
	e, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	var req addAreaRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	index, err := e.Add(req.Shape)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"index": index, "editor": e.View()})
}

func (h *EditorHandler) RemoveArea(c fiber.Ctx) error {
	return h.withIndex(c, func(e *service.Editor, index int) error {
		return e.Remove(index)
	})
}

func (h *EditorHandler) ActivateArea(c fiber.Ctx) error {
	return h.withIndex(c, func(e *service.Editor, index int) error {
		return e.SetActive(index)
	})
}

// ToggleArea is the accordion header click.
func (h *EditorHandler) ToggleArea(c fiber.Ctx) error {
	return h.withIndex(c, func(e *service.Editor, index int) error {
		return e.Toggle(index)
	})
}

func (h *EditorHandler) SetField(c fiber.Ctx) error {
	var req fieldRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return badRequest(c, "invalid field name")
	}
	return h.withIndex(c, func(e *service.Editor, index int) error {
		return e.SetField(index, name, req.Value)
	})
}

func (h *EditorHandler) SetPoints(c fiber.Ctx) error {
	var req pointsRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	return h.withIndex(c, func(e *service.Editor, index int) error {
		return e.SetPoints(index, req.Path)
	})
}

// Gesture forwards one pointer event.
func (h *EditorHandler) Gesture(c fiber.Ctx) error {
	e, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	var ev interaction.Event
	if err := decodeBody(c, &ev); err != nil {
		return badRequest(c, err.Error())
	}
	res, err := e.Gesture(ev)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

// ============================================================
// Hidden form fields
// ============================================================

// Save is the "<itemFormElName>-save" trigger of the host form.
func (h *EditorHandler) Save(c fiber.Ctx) error {
	name, err := formName(c)
	if err != nil {
		return badRequest(c, "invalid form field name")
	}
	n, err := h.registry.DispatchSave(c.Context(), name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"field": name, "saved": n})
}

func (h *EditorHandler) GetForm(c fiber.Ctx) error {
	name, err := formName(c)
	if err != nil {
		return badRequest(c, "invalid form field name")
	}
	value, err := h.hidden.Get(c.Context(), name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"field": name, "value": value})
}

// GetPoints renders the stored areas the way templates consume them.
func (h *EditorHandler) GetPoints(c fiber.Ctx) error {
	name, err := formName(c)
	if err != nil {
		return badRequest(c, "invalid form field name")
	}
	width, err := queryInt(c, "width")
	if err != nil {
		return badRequest(c, "invalid width")
	}
	height, err := queryInt(c, "height")
	if err != nil {
		return badRequest(c, "invalid height")
	}
	value, err := h.hidden.Get(c.Context(), name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return h.fail(c, err)
	}
	return c.JSON(processor.Process(value, width, height))
}

// ============================================================
// Helpers
// ============================================================

func (h *EditorHandler) withIndex(c fiber.Ctx, fn func(*service.Editor, int) error) error {
	e, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, "invalid index")
	}
	if err := fn(e, index); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(e.View())
}

func (h *EditorHandler) fail(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEditorNotFound),
		errors.Is(err, store.ErrIndexOutOfRange),
		errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, interaction.ErrGestureInProgress):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidMount),
		errors.Is(err, service.ErrNotPolygon),
		errors.Is(err, service.ErrInvalidPolygon),
		errors.Is(err, store.ErrUnknownShape),
		errors.Is(err, store.ErrReservedField),
		errors.Is(err, fields.ErrUnknownField),
		errors.Is(err, fields.ErrInvalidOption),
		errors.Is(err, interaction.ErrUnknownEvent):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func decodeBody(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return errors.New("empty body")
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

func formName(c fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("name"))
}

func queryInt(c fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
