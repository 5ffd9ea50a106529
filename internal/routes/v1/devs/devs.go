package routesV1Devs

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo"
	"github.com/tindev/tindev-app/internal/entity"
	"github.com/tindev/tindev-app/internal/usecase/match"
	"github.com/tindev/tindev-app/pkg/http_util"
)

const feedLimit = 10

func currentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get("userProfile").(*entity.User)
	return user, ok
}

// GetCandidatesHandler serves the swipe queue for the authenticated
// user: profiles they have not acted on yet, oldest first.
func GetCandidatesHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	user, ok := currentUser(c)

	if !ok {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	candidates, err := matchCase.GetCandidates(c.Request().Context(), int(user.ID), feedLimit)

	if err != nil {
		return http_util.Encode(c, http.StatusInternalServerError, map[string]string{"error": "failed to get candidates"})
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.CandidatesResponse]{
		Message: "Candidates fetched successfully",
		Data: entity.CandidatesResponse{
			Candidates: candidates,
		},
	})
}

func LikeHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	return swipeHandler(c, matchCase, entity.ActionLike)
}

func DislikeHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	return swipeHandler(c, matchCase, entity.ActionDislike)
}

func swipeHandler(c echo.Context, matchCase match.IMatchUseCase, action entity.Action) error {
	user, ok := currentUser(c)

	if !ok {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	toUserID, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	outcome, err := matchCase.RecordSwipe(c.Request().Context(), int(user.ID), toUserID, action)

	if err != nil {
		return http_util.Encode(c, http.StatusInternalServerError, map[string]string{"error": "failed to swipe"})
	}

	if outcome == entity.OutcomeNotFound {
		return http_util.Encode(c, http.StatusNotFound, map[string]string{"error": "profile not found"})
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.SwipeResponse]{
		Message: "Swipe outcome",
		Data: entity.SwipeResponse{
			Outcome:     outcome.String(),
			OutcomeEnum: outcome,
		},
	})
}
