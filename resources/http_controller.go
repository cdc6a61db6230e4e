package resources

import (
	"net/http"

	"github.com/goliatone/go-router"
)

// HTTPController serves the public safety-resource directory.
type HTTPController struct{}

func NewHTTPController() *HTTPController {
	return &HTTPController{}
}

// RegisterRoutes mounts the directory endpoint.
func RegisterRoutes[T any](app router.Router[T], c *HTTPController) {
	app.Get("/resources", c.List).SetName("resources.list")
}

func (c *HTTPController) List(ctx router.Context) error {
	category := ctx.Query("category", "")

	if category == "" {
		records := All()
		return ctx.JSON(http.StatusOK, map[string]any{
			"status":  "success",
			"results": len(records),
			"data":    map[string]any{"resources": records},
		})
	}

	if !ValidCategory(category) {
		return ctx.JSON(http.StatusBadRequest, map[string]any{
			"status":  "fail",
			"message": "unknown resource category",
		})
	}

	records := ByCategory(category)
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"results": len(records),
		"data":    map[string]any{"resources": records},
	})
}
