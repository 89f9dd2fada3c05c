package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inventory-service/internal/domain"
	"inventory-service/internal/service"
	"inventory-service/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	products service.ProductService
	logger   logrus.FieldLogger
}

func NewHandler(users service.UserService, products service.ProductService, logger logrus.FieldLogger) *Handler {
	return &Handler{
		users:    users,
		products: products,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestLogger(h.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	// bulk create has never required a token; see DESIGN.md
	router.POST("/products", h.createProducts)

	protected := router.Group("", h.authenticate())
	{
		protected.GET("/me", h.me)
		protected.GET("/products", h.listProducts)
		protected.GET("/products/:id", h.getProduct)
		protected.PATCH("/products/:id", h.updateProduct)
		protected.DELETE("/products/:id", h.deleteProduct)
		protected.POST("/snapshots", h.createSnapshot)
		protected.GET("/snapshots", h.listSnapshots)
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type productResponse struct {
	Message string         `json:"message"`
	Product domain.Product `json:"product"`
}

type snapshotResponse struct {
	Message  string `json:"message"`
	Location string `json:"location"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond(c, outcome{http.StatusBadRequest, "validation_error", "invalid JSON payload"}, err)
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, service.ErrInvalidCredentials)
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Message: "Logged in successfully", Token: token})
}

func (h *Handler) me(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		h.fail(c, service.ErrMissingToken)
		return
	}
	current, err := h.users.CurrentUser(c.Request.Context(), identity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// createProducts answers every failure with 400, including store errors.
func (h *Handler) createProducts(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.respond(c, outcome{http.StatusBadRequest, "validation_error", err.Error()}, err)
		return
	}

	items, err := service.DecodeBatch(raw)
	if err != nil {
		h.respond(c, outcome{http.StatusBadRequest, "validation_error", "Expected an array of products"}, err)
		return
	}

	created, err := h.products.CreateMany(c.Request.Context(), items)
	if err != nil {
		h.logger.WithError(err).Warn("bulk product insert failed")
		h.respond(c, outcome{http.StatusBadRequest, "storage_error", err.Error()}, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateProduct(c *gin.Context) {
	patch, err := decodePatch(c)
	if err != nil {
		h.respond(c, outcome{http.StatusBadRequest, "validation_error", "expected a JSON object"}, err)
		return
	}

	product, err := h.products.UpdatePartial(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.failMutation(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponse{Message: "Product updated successfully", Product: *product})
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.failMutation(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// failMutation reports a malformed id on update and delete as a server error,
// matching what existing clients of those routes receive.
func (h *Handler) failMutation(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidID) {
		h.respond(c, outcome{http.StatusInternalServerError, "invalid_id", "Invalid product ID format"}, err)
		return
	}
	h.fail(c, err)
}

func (h *Handler) createSnapshot(c *gin.Context) {
	location, err := h.products.Snapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if identity, ok := identityFrom(c); ok {
		h.logger.WithFields(logrus.Fields{
			"location": location,
			"user":     identity.Username,
		}).Info("catalog snapshot uploaded")
	}
	c.JSON(http.StatusCreated, snapshotResponse{Message: "Catalog snapshot uploaded", Location: location})
}

func (h *Handler) listSnapshots(c *gin.Context) {
	objects, err := h.products.ListSnapshots(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

// decodePatch reads an update body. An empty body is an empty patch.
func decodePatch(c *gin.Context) (domain.Document, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	patch := domain.Document{}
	if len(raw) == 0 {
		return patch, nil
	}
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, err
	}
	if patch == nil {
		return domain.Document{}, nil
	}
	return patch, nil
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
