package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/imrishuroy/go-catalog/internal/dto"
	"github.com/imrishuroy/go-catalog/internal/events"
	"github.com/imrishuroy/go-catalog/internal/idempotency"
	"github.com/imrishuroy/go-catalog/internal/items"
	"github.com/imrishuroy/go-catalog/internal/validation"
)

// IdempotencyKeyHeader makes POST /items safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// Repository is the item persistence the handler depends on.
type Repository interface {
	List(ctx context.Context, nameFilter string) ([]items.Item, error)
	Get(ctx context.Context, id string) (*items.Item, error)
	Create(ctx context.Context, it items.Item) error
	Update(ctx context.Context, it items.Item) error
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore records create requests by Idempotency-Key.
type IdempotencyStore interface {
	CreateIfNotExists(ctx context.Context, key, itemID string) (bool, error)
	Get(ctx context.Context, key string) (*idempotency.Record, error)
	MarkDone(ctx context.Context, key, responseBody string, responseStatus int) error
	MarkFailed(ctx context.Context, key, note string) error
}

// HandlerConfig groups dependencies for the items handler.
// Idempotency and Events are optional.
type HandlerConfig struct {
	Repository  Repository
	Idempotency IdempotencyStore
	Events      events.Publisher
	Logger      *log.Logger
}

// ItemsHandler serves the /items resource.
type ItemsHandler struct {
	repo     Repository
	idemp    IdempotencyStore
	events   events.Publisher
	logger   *log.Logger
	validate *validatorv10.Validate
	nowFunc  func() time.Time
	newID    func() string
}

// NewItemsHandler builds a handler from its dependencies.
func NewItemsHandler(cfg HandlerConfig) *ItemsHandler {
	h := &ItemsHandler{
		repo:     cfg.Repository,
		idemp:    cfg.Idempotency,
		events:   cfg.Events,
		logger:   cfg.Logger,
		validate: validation.New(),
		nowFunc:  time.Now,
		newID:    uuid.NewString,
	}
	if h.events == nil {
		h.events = events.NopPublisher{}
	}
	if h.logger == nil {
		h.logger = log.Default()
	}
	return h
}

// RegisterItemsRoutes registers routes for the item API.
func RegisterItemsRoutes(r gin.IRouter, h *ItemsHandler) {
	g := r.Group("/items")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List godoc
// @Summary      List items
// @Description  Returns every item. nameToMatch keeps items whose name contains it, ignoring case.
// @Tags         items
// @Produce      json
// @Param        nameToMatch  query     string  false  "Case-insensitive name substring"
// @Success      200          {array}   dto.ItemResponse
// @Failure      500          {object}  map[string]string
// @Router       /items [get]
func (h *ItemsHandler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), c.Query("nameToMatch"))
	if err != nil {
		h.storeFailure(c, "list", "", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToResponses(list))
}

// Get godoc
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item ID (UUID)"
// @Success      200  {object}  dto.ItemResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /items/{id} [get]
func (h *ItemsHandler) Get(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	it, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.repoFailure(c, "get", id, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToResponse(*it))
}

// Create godoc
// @Summary      Create an item
// @Description  Assigns a new id and createdDate. Send Idempotency-Key to make retries safe.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                 false  "Client supplied retry key"
// @Param        body             body      dto.CreateItemRequest  true   "Item to create"
// @Success      201              {object}  dto.ItemResponse
// @Header       201              {string}  Location  "/items/{id}"
// @Failure      400              {object}  map[string]interface{}
// @Failure      409              {object}  map[string]string
// @Failure      500              {object}  map[string]string
// @Router       /items [post]
func (h *ItemsHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateItemRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		// BindAndValidate already wrote a 400
		return
	}

	it := dto.NewItem(req, h.newID(), h.nowFunc().UTC())

	idempKey := ""
	if h.idemp != nil {
		idempKey = c.GetHeader(IdempotencyKeyHeader)
	}
	if idempKey != "" {
		created, err := h.idemp.CreateIfNotExists(ctx, idempKey, it.ID)
		if err != nil {
			h.logger.Printf("idempotency check failed key=%s: %v", idempKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed"})
			return
		}
		if !created {
			h.replay(c, idempKey)
			return
		}
	}

	if err := h.repo.Create(ctx, it); err != nil {
		if idempKey != "" {
			// let the client retry with the same key
			_ = h.idemp.MarkFailed(ctx, idempKey, fmt.Sprintf("create_failed: %v", err))
		}
		if errors.Is(err, items.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "item_already_exists", "id": it.ID})
			return
		}
		h.storeFailure(c, "create", it.ID, err)
		return
	}

	resp := dto.ToResponse(it)
	if idempKey != "" {
		body, _ := json.Marshal(resp)
		if err := h.idemp.MarkDone(ctx, idempKey, string(body), http.StatusCreated); err != nil {
			h.logger.Printf("idempotency mark done failed key=%s id=%s: %v", idempKey, it.ID, err)
		}
	}
	h.publish(c, events.TypeItemCreated, it)

	c.Header("Location", itemLocation(it.ID))
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Replace an item's mutable fields
// @Description  name, description and price are replaced; id and createdDate are kept.
// @Tags         items
// @Accept       json
// @Param        id    path  string                 true  "Item ID (UUID)"
// @Param        body  body  dto.UpdateItemRequest  true  "New values"
// @Success      204
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /items/{id} [put]
func (h *ItemsHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := itemID(c)
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	existing, err := h.repo.Get(ctx, id)
	if err != nil {
		h.repoFailure(c, "get", id, err)
		return
	}
	updated := dto.ApplyUpdate(*existing, req)
	if err := h.repo.Update(ctx, updated); err != nil {
		h.repoFailure(c, "update", id, err)
		return
	}
	h.publish(c, events.TypeItemUpdated, updated)

	c.Status(http.StatusNoContent)
}

// Delete godoc
// @Summary      Delete an item
// @Tags         items
// @Param        id   path  string  true  "Item ID (UUID)"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /items/{id} [delete]
func (h *ItemsHandler) Delete(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.repoFailure(c, "delete", id, err)
		return
	}
	h.publish(c, events.TypeItemDeleted, items.Item{ID: id})

	c.Status(http.StatusNoContent)
}

// replay answers a repeated create for a known Idempotency-Key.
func (h *ItemsHandler) replay(c *gin.Context, key string) {
	rec, err := h.idemp.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Printf("idempotency lookup failed key=%s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed"})
		return
	}
	if rec == nil {
		// conditional put failed but the record is gone (expired between calls)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_record_missing"})
		return
	}
	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ItemID != "" {
			c.Header("Location", itemLocation(rec.ItemID))
		}
		c.Data(rec.ResponseStatus, "application/json; charset=utf-8", []byte(rec.ResponseBody))
	case idempotency.StatusInProgress:
		c.JSON(http.StatusConflict, gin.H{"error": "request_in_progress", "id": rec.ItemID})
	case idempotency.StatusFailed:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "previous_attempt_failed", "id": rec.ItemID})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
	}
}

// publish emits a change event. Failures are logged only: the write already happened.
func (h *ItemsHandler) publish(c *gin.Context, eventType string, it items.Item) {
	ev := events.ItemEvent{
		Type:          eventType,
		ItemID:        it.ID,
		Name:          it.Name,
		Price:         it.Price,
		OccurredAt:    h.nowFunc().UTC(),
		CorrelationID: c.GetHeader("X-Request-Id"),
	}
	if err := h.events.Publish(c.Request.Context(), ev); err != nil {
		h.logger.Printf("event publish failed type=%s id=%s: %v", eventType, it.ID, err)
	}
}

// repoFailure maps repository errors: not found -> 404, anything else -> 500.
func (h *ItemsHandler) repoFailure(c *gin.Context, op, id string, err error) {
	if errors.Is(err, items.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item_not_found", "id": id})
		return
	}
	h.storeFailure(c, op, id, err)
}

func (h *ItemsHandler) storeFailure(c *gin.Context, op, id string, err error) {
	h.logger.Printf("store error op=%s id=%s: %v", op, id, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "store_unavailable"})
}

// itemID parses the :id route parameter. It writes a 400 when the id is not a UUID.
func itemID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_item_id", "msg": err.Error()})
		return "", false
	}
	return id.String(), true
}

func itemLocation(id string) string {
	return "/items/" + id
}
