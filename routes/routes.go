package routes

import (
	"database/sql"

	"food-delivery-orders/handlers"
	"food-delivery-orders/middleware"
	"food-delivery-orders/models"
	"food-delivery-orders/notify"
	"food-delivery-orders/service"
	"food-delivery-orders/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const Version = "1.0.0"

// Deps are the handlers and the token manager the routes are bound to.
type Deps struct {
	Tokens        *middleware.TokenManager
	Auth          *handlers.AuthHandler
	Orders        *handlers.OrderHandler
	Notifications *handlers.NotificationHandler
	Restaurants   *handlers.RestaurantHandler
	Admin         *handlers.AdminHandler
	Public        *handlers.PublicHandler
}

// NewDeps builds stores, services and handlers over one database.
func NewDeps(db *gorm.DB, sqlDB *sql.DB, tokens *middleware.TokenManager, log *zap.Logger) Deps {
	orderStore := store.NewOrderStore(db)
	restaurantStore := store.NewRestaurantStore(db)
	userStore := store.NewUserStore(db)
	notificationStore := store.NewNotificationStore(db)

	emitter := notify.NewEmitter(notificationStore, log.Named("notify"))
	orders := service.NewOrderService(orderStore, restaurantStore, userStore, emitter, log.Named("orders"))
	restaurants := service.NewRestaurantService(restaurantStore)
	auth := service.NewAuthService(userStore, tokens, log.Named("auth"))

	return Deps{
		Tokens:        tokens,
		Auth:          handlers.NewAuthHandler(auth),
		Orders:        handlers.NewOrderHandler(orders),
		Notifications: handlers.NewNotificationHandler(service.NewNotificationService(notificationStore)),
		Restaurants:   handlers.NewRestaurantHandler(restaurants),
		Admin:         handlers.NewAdminHandler(orders, auth, restaurants),
		Public:        handlers.NewPublicHandler(sqlDB, Version),
	}
}

// New returns an engine with the middleware chain and every route mounted.
func New(log *zap.Logger, serviceName string, d Deps) *gin.Engine {
	handlers.RegisterValidation()

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.Tracing(serviceName),
		middleware.ErrorHandler(log),
	)
	SetupRoutes(r, d)
	return r
}

func SetupRoutes(r *gin.Engine, d Deps) {
	// ── Public routes ──────────────────────────────────────────────
	r.GET("/health", d.Public.Health)
	r.GET("/state-machine", d.Public.StateMachine)

	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)

	r.GET("/restaurants", d.Restaurants.List)
	r.GET("/restaurants/:id", d.Restaurants.Get)
	r.GET("/restaurants/:id/menu", d.Restaurants.Menu)

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/")
	auth.Use(middleware.AuthRequired(d.Tokens))
	{
		auth.GET("/profile", d.Auth.Profile)

		// Order lifecycle
		auth.POST("/orders", middleware.RoleRequired(models.RoleCustomer), d.Orders.PlaceOrder)
		auth.GET("/orders/:orderId", d.Orders.GetOrder)
		auth.PATCH("/orders/:orderId/status", d.Orders.UpdateStatus)
		auth.GET("/orders/customer/:customerId", d.Orders.CustomerHistory)
		auth.GET("/orders/restaurant/:restaurantId", d.Orders.RestaurantQueue)
		auth.GET("/orders/delivery/available", d.Orders.DeliveryPool)
		auth.GET("/orders/delivery/:driverId", d.Orders.DriverOrders)

		// Notifications
		auth.GET("/notifications/:id", d.Notifications.List)
		auth.PATCH("/notifications/:id/read", d.Notifications.MarkRead)
	}

	// ── Restaurant owner routes ────────────────────────────────────
	owner := r.Group("/")
	owner.Use(middleware.AuthRequired(d.Tokens), middleware.RoleRequired(models.RoleRestaurant))
	{
		owner.POST("/restaurants", d.Restaurants.Create)
		owner.PATCH("/restaurants/:id", d.Restaurants.Update)
		owner.POST("/restaurants/:id/menu", d.Restaurants.AddMenuItem)
		owner.PATCH("/menu/:itemId", d.Restaurants.UpdateMenuItem)
		owner.DELETE("/menu/:itemId", d.Restaurants.DeleteMenuItem)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(d.Tokens), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", d.Admin.Orders)
		admin.GET("/users", d.Admin.Users)
		admin.GET("/restaurants", d.Admin.Restaurants)
	}
}
