package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const recentOrdersLimit = 5

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	store    store.Storer
	health   *HealthReporter
	logger   zerolog.Logger
	validate *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(s store.Storer, health *HealthReporter, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		store:    s,
		health:   health,
		logger:   logger.With().Str("component", "http").Logger(),
		validate: validator.New(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ActionResponse is returned by the write endpoints.
type ActionResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	User    *domain.UserSummary `json:"user,omitempty"`
	OrderID int64               `json:"order_id,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// Headers are already out, nothing useful left to send.
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// decodeAndValidate reads a JSON body into dst and runs the struct validator.
// It writes the 400 response itself and reports whether the handler may go on.
func (h *HTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// --- Catalog Handlers ---

func (h *HTTPHandler) Home(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Bienvenido a la API de Cuerar"})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListInStockProducts(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("ListInStockProducts store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	respondWithJSON(w, http.StatusOK, struct {
		Products []domain.Product `json:"products"`
	}{products})
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("ListCategories store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	respondWithJSON(w, http.StatusOK, struct {
		Categories []domain.Category `json:"categories"`
	}{categories})
}

func (h *HTTPHandler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseIDParam(r, "categoryId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	products, err := h.store.ListProductsByCategory(r.Context(), categoryID)
	if err != nil {
		h.logger.Error().Err(err).Int64("category_id", categoryID).Msg("ListProductsByCategory store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	respondWithJSON(w, http.StatusOK, struct {
		Products []domain.Product `json:"products"`
	}{products})
}

// --- Account Handlers ---

// RegisterInput defines the expected input for registering a user.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"` // bcrypt input limit
	Phone    string `json:"phone" validate:"required"`
}

const msgUserExists = "El email o nombre de usuario ya están registrados"

func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	_, err := h.store.FindUserByEmailOrUsername(r.Context(), input.Email, input.Username)
	switch {
	case err == nil:
		respondWithError(w, http.StatusBadRequest, msgUserExists)
		return
	case !errors.Is(err, store.ErrUserNotFound):
		h.logger.Error().Err(err).Msg("FindUserByEmailOrUsername store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Error al registrar usuario")
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		h.logger.Error().Err(err).Msg("password hashing failed")
		respondWithError(w, http.StatusInternalServerError, "Error al registrar usuario")
		return
	}

	phone := input.Phone
	created, err := h.store.CreateUser(r.Context(), &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        &phone,
	})
	if err != nil {
		// A concurrent registration can still hit the unique constraint.
		if errors.Is(err, store.ErrUserExists) {
			respondWithError(w, http.StatusBadRequest, msgUserExists)
			return
		}
		h.logger.Error().Err(err).Msg("CreateUser store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Error al registrar usuario")
		return
	}

	h.logger.Info().Int64("user_id", created.ID).Msg("user registered")
	summary := created.Summary()
	respondWithJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: fmt.Sprintf("¡Ya estás registrado %s, bienvenido a Cuerar!", created.Username),
		User:    &summary,
	})
}

// LoginInput defines the expected input for a credential check.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.store.GetUserCredentialsByEmail(r.Context(), input.Email)
	if err == nil {
		err = auth.CheckPassword(user.PasswordHash, input.Password)
	}
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, auth.ErrPasswordMismatch) {
			respondWithError(w, http.StatusUnauthorized, "Usuario o contraseña incorrectos")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to check credentials")
		return
	}

	summary := user.Summary()
	respondWithJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: fmt.Sprintf("¡Bienvenido, %s!", user.Username),
		User:    &summary,
	})
}

// ContactInput defines the expected input of the contact form.
type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

func (h *HTTPHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var input ContactInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	if _, err := h.store.CreateContactMessage(r.Context(), &domain.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Message: input.Message,
	}); err != nil {
		h.logger.Error().Err(err).Msg("CreateContactMessage store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to save contact message")
		return
	}

	respondWithJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: "¡Gracias por contactarnos! Alguien de nuestro equipo se contactará contigo a la brevedad.",
	})
}

func (h *HTTPHandler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.store.ListContactMessages(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("ListContactMessages store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve contact messages")
		return
	}
	respondWithJSON(w, http.StatusOK, struct {
		Messages []domain.ContactMessage `json:"messages"`
	}{messages})
}

// --- Order Handlers ---

// CartItem is one line of the checkout cart. The field names are part of the
// storefront's public contract.
type CartItem struct {
	Nombre string   `json:"nombre" validate:"required"`
	Precio *float64 `json:"precio" validate:"required"`
}

// CheckoutInput defines the expected input for creating an order.
// Total is trusted as sent and is not recomputed from the items.
type CheckoutInput struct {
	Items  []CartItem `json:"items" validate:"dive"`
	Total  *float64   `json:"total" validate:"required"`
	UserID *int64     `json:"user_id" validate:"omitempty,gt=0"`
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input CheckoutInput
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if len(input.Items) == 0 {
		respondWithError(w, http.StatusBadRequest, "El carrito está vacío")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	order := &domain.Order{
		UserID: input.UserID,
		Total:  *input.Total,
		Status: domain.OrderStatusCompleted,
		Items:  make([]domain.OrderItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductName:  item.Nombre,
			ProductPrice: *item.Precio,
			Quantity:     1,
		})
	}

	created, err := h.store.CreateOrder(r.Context(), order)
	if err != nil {
		h.logger.Error().Err(err).Msg("CreateOrder store operation failed")
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "Usuario no encontrado")
		case errors.Is(err, store.ErrEmptyOrder):
			respondWithError(w, http.StatusBadRequest, "El carrito está vacío")
		default:
			respondWithError(w, http.StatusInternalServerError, "Error al procesar el pedido")
		}
		return
	}

	h.logger.Info().Int64("order_id", created.ID).Int("items", len(created.Items)).Float64("total", created.Total).Msg("order created")
	respondWithJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: "Compra realizada con éxito. ¡Gracias!",
		OrderID: created.ID,
	})
}

// ListUserOrders returns every order of a user, newest first. An unknown user
// simply has no orders.
func (h *HTTPHandler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	orders, err := h.store.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("ListOrdersByUser store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	respondWithJSON(w, http.StatusOK, struct {
		Orders []domain.Order `json:"orders"`
	}{orders})
}

// --- User & Statistics Handlers ---

func (h *HTTPHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("ListUsers store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	respondWithJSON(w, http.StatusOK, struct {
		Users []domain.User `json:"users"`
	}{users})
}

func (h *HTTPHandler) GetUserOrderStats(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	report, err := h.buildUserReport(r, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("user order statistics failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve user statistics")
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (h *HTTPHandler) buildUserReport(r *http.Request, userID int64) (*domain.UserOrdersReport, error) {
	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	stats, err := h.store.GetUserOrderStats(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	recent, err := h.store.ListRecentOrdersByUser(r.Context(), userID, recentOrdersLimit)
	if err != nil {
		return nil, err
	}
	report := &domain.UserOrdersReport{
		User:         user.Summary(),
		Statistics:   *stats,
		RecentOrders: make([]domain.OrderSummary, 0, len(recent)),
	}
	for i := range recent {
		report.RecentOrders = append(report.RecentOrders, recent[i].Summary())
	}
	return report, nil
}

func (h *HTTPHandler) GetSalesStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetSalesStatistics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("GetSalesStatistics store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve sales statistics")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *HTTPHandler) GetProductStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetProductStatistics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("GetProductStatistics store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product statistics")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// Healthz always answers 200; the payload carries the database state.
func (h *HTTPHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.health.Probe(r.Context()))
}

// RegisterRoutes sets up the HTTP routes for the service. writeMW wraps the
// POST endpoints only.
func (h *HTTPHandler) RegisterRoutes(r chi.Router, writeMW ...func(http.Handler) http.Handler) {
	r.Get("/", h.Home)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", h.Healthz)

		r.Get("/products", h.ListProducts)
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{categoryId}/products", h.ListCategoryProducts)

		r.Get("/orders/{userId}", h.ListUserOrders)
		r.Get("/users", h.ListUsers)
		r.Get("/users/{userId}/orders", h.GetUserOrderStats)
		r.Get("/statistics/sales", h.GetSalesStatistics)
		r.Get("/statistics/products", h.GetProductStatistics)
		r.Get("/contact-messages", h.ListContactMessages)

		r.Group(func(r chi.Router) {
			r.Use(writeMW...)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/contact", h.Contact)
			r.Post("/orders", h.CreateOrder)
		})
	})
}
