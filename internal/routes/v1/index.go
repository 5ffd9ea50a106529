package routesV1

import (
	"github.com/labstack/echo"
	"github.com/tindev/tindev-app/internal/middleware"
	"github.com/tindev/tindev-app/internal/realtime"
	userRepo "github.com/tindev/tindev-app/internal/repository/user"
	routesV1Auth "github.com/tindev/tindev-app/internal/routes/v1/auth"
	routesV1Devs "github.com/tindev/tindev-app/internal/routes/v1/devs"
	routesV1Realtime "github.com/tindev/tindev-app/internal/routes/v1/realtime"
	authUseCase "github.com/tindev/tindev-app/internal/usecase/auth"
	"github.com/tindev/tindev-app/internal/usecase/match"
)

func InitV1Routes(
	e *echo.Echo,
	authCase authUseCase.IAuthUseCase,
	matchCase match.IMatchUseCase,
	users userRepo.IUserRepo,
	registry *realtime.Registry,
) {
	v1 := e.Group("/v1")

	v1.POST("/auth/sign-up", func(c echo.Context) error {
		return routesV1Auth.SignUpHandler(c, authCase)
	})
	v1.POST("/auth/sign-in", func(c echo.Context) error {
		return routesV1Auth.SignInHandler(c, authCase)
	})

	devs := v1.Group("/devs", middleware.JWTMiddleware(users))

	devs.GET("", func(c echo.Context) error {
		return routesV1Devs.GetCandidatesHandler(c, matchCase)
	})
	devs.POST("/:id/likes", func(c echo.Context) error {
		return routesV1Devs.LikeHandler(c, matchCase)
	})
	devs.POST("/:id/dislikes", func(c echo.Context) error {
		return routesV1Devs.DislikeHandler(c, matchCase)
	})

	e.GET("/ws", func(c echo.Context) error {
		return routesV1Realtime.WSHandler(c, registry)
	})
}
