package main

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/prompt-store/internal/apperr"
	"github.com/MikeMC777/prompt-store/internal/httpx"
	"github.com/MikeMC777/prompt-store/internal/profile"
)

const maxWebhookBody = 1 << 20

// getProfileHandler godoc
// @Summary      Get the caller's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profile.Profile
// @Failure      404  {object}  prompt.HTTPError
// @Router       /api/profile [get]
func getProfileHandler(svc *profile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// updateProfileHandler godoc
// @Summary      Update nickname or avatar
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profile.UpdateProfileRequest  true  "Profile fields"
// @Success      200   {object}  profile.Profile
// @Failure      400   {object}  prompt.HTTPError
// @Router       /api/profile [put]
func updateProfileHandler(svc *profile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req profile.UpdateProfileRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		p, err := svc.Update(c.Request.Context(), httpx.UserID(c), req)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// clerkWebhookHandler godoc
// @Summary      Identity provider user lifecycle events
// @Description  Signed with svix; user.created, user.updated and user.deleted are applied
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  prompt.HTTPError
// @Router       /api/webhooks/clerk [post]
func clerkWebhookHandler(wh *profile.Webhook) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
		if err != nil {
			httpx.Error(c, apperr.Validation("unreadable webhook body"))
			return
		}
		eventType, err := wh.Handle(c.Request.Context(), payload, c.Request.Header)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		log.Printf("[webhook] rid=%s handled %s", httpx.RequestIDFrom(c), eventType)
		c.JSON(http.StatusOK, gin.H{"success": true, "type": eventType})
	}
}
