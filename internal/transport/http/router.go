package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/handlers"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/middleware/guard"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
)

type Deps struct {
	Pages     *handlers.PagesHTTP
	Products  *handlers.ProductHTTP
	Cart      *handlers.CartHTTP
	Dashboard *handlers.DashboardHTTP
	Auth      *handlers.AuthHTTP
	Metrics   http.Handler
}

type Options struct {
	Logger       *slog.Logger
	Sessions     *session.Manager
	Session      session.Config
	CookieSecure bool
}

var infraPrefixes = []string{"/health/", "/metrics"}

func isInfra(path string) bool {
	for _, p := range infraPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// NewEcho builds the server with the middleware chain every route shares.
func NewEcho(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(opts.Logger),
		middleware.Secure(),
	)

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = opts.CookieSecure
	csrfCfg.SkipPaths = []string{guard.LoginPath}
	csrfCfg.SkipPrefixes = infraPrefixes
	e.Use(csrf.Middleware(csrfCfg))

	sc := opts.Session
	sc.CookieSecure = opts.CookieSecure
	sc.Skipper = func(c echo.Context) bool { return isInfra(c.Request().URL.Path) }
	e.Use(session.Middleware(opts.Sessions, sc))

	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	authed := guard.RequireAuth()
	admin := guard.RequireRole(models.RoleAdmin)

	e.GET("/", d.Pages.Home)
	e.GET("/about", d.Pages.About)

	e.GET("/products", d.Products.GetProducts)
	e.GET("/products/:id", d.Products.GetProduct)
	e.PATCH("/products/:id", d.Products.PatchProduct, admin)

	e.GET("/cart", d.Cart.GetCart)
	e.DELETE("/cart", d.Cart.ClearCart)
	e.POST("/cart/items", d.Cart.AddToCart)
	e.DELETE("/cart/items/:id", d.Cart.DeleteOneFromCart)
	e.DELETE("/cart/items/:id/all", d.Cart.DeleteAllFromCart)

	e.GET("/checkout", d.Cart.Checkout, authed)
	e.POST("/checkout", d.Cart.PlaceOrder, authed)

	e.GET("/dashboard", d.Dashboard.Dashboard, admin)
	e.POST("/dashboard/products", d.Dashboard.CreateProduct, admin)
	e.PUT("/dashboard/products/:id", d.Dashboard.UpdateProduct, admin)
	e.DELETE("/dashboard/products/:id", d.Dashboard.DeleteProduct, admin)
	e.POST("/dashboard/refresh", d.Dashboard.Refresh, admin)

	e.GET(guard.LoginPath, d.Auth.LoginPage)
	e.POST(guard.LoginPath, d.Auth.Login)
	e.POST("/logout", d.Auth.Logout)

	e.RouteNotFound("/*", handlers.NotFound)
}
