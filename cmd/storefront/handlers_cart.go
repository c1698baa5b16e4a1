package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/prompt-store/internal/apperr"
	"github.com/MikeMC777/prompt-store/internal/cart"
	"github.com/MikeMC777/prompt-store/internal/httpx"
	"github.com/MikeMC777/prompt-store/internal/order"
	"github.com/MikeMC777/prompt-store/internal/payment"
)

// cartItemRequest payload of cart add/remove.
// swagger:model cartItemRequest
type cartItemRequest struct {
	PromptID string `json:"promptId" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
}

// mergeCartRequest carries the browser-local cart kept before sign-in.
type mergeCartRequest struct {
	Items []cart.Item `json:"items"`
}

func writeCart(c *gin.Context, svc *cart.Service, status int) {
	view, err := svc.List(c.Request.Context(), httpx.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(status, view)
}

// getCartHandler godoc
// @Summary      Get the caller's cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cart.View
// @Failure      401  {object}  prompt.HTTPError
// @Router       /api/cart [get]
func getCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeCart(c, svc, http.StatusOK)
	}
}

// addToCartHandler godoc
// @Summary      Add a prompt to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartItemRequest  true  "Prompt to add"
// @Success      201   {object}  cart.View
// @Failure      404   {object}  prompt.HTTPError
// @Failure      409   {object}  prompt.HTTPError
// @Router       /api/cart [post]
func addToCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		if err := svc.Add(c.Request.Context(), httpx.UserID(c), req.PromptID); err != nil {
			httpx.Error(c, err)
			return
		}
		writeCart(c, svc, http.StatusCreated)
	}
}

// hasBody reports whether the request carries a body; chunked bodies have an
// unknown (-1) length.
func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}

// removeFromCartHandler godoc
// @Summary      Remove a prompt from the cart
// @Description  The promptId comes from the query or the body
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        promptId  query     string           false  "Prompt to remove"
// @Param        body      body      cartItemRequest  false  "Prompt to remove"
// @Success      200       {object}  cart.View
// @Failure      400       {object}  prompt.HTTPError
// @Router       /api/cart [delete]
func removeFromCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := cartItemRequest{PromptID: c.Query("promptId")}
		if req.PromptID == "" && hasBody(c.Request) {
			if !httpx.BindJSON(c, &req) {
				return
			}
		}
		if req.PromptID == "" {
			httpx.Error(c, apperr.Validation("promptId is required",
				apperr.FieldError{Field: "promptId", Message: "required"}))
			return
		}
		if err := svc.Remove(c.Request.Context(), httpx.UserID(c), req.PromptID); err != nil {
			httpx.Error(c, err)
			return
		}
		writeCart(c, svc, http.StatusOK)
	}
}

// clearCartHandler godoc
// @Summary      Empty the caller's cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cart.View
// @Router       /api/cart/all [delete]
func clearCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), httpx.UserID(c)); err != nil {
			httpx.Error(c, err)
			return
		}
		writeCart(c, svc, http.StatusOK)
	}
}

// mergeCartHandler godoc
// @Summary      Merge a browser cart into the server cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      mergeCartRequest  true  "Local cart items"
// @Success      200   {object}  cart.MergeResult
// @Router       /api/cart/merge [post]
func mergeCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req mergeCartRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		res, err := svc.Merge(c.Request.Context(), httpx.UserID(c), req.Items)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// checkoutHandler godoc
// @Summary      Create a pending order and the payment widget session
// @Description  An empty promptIds list checks out the available items of the cart
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      order.CheckoutRequest  false  "Prompts to buy"
// @Success      201   {object}  order.CheckoutResponse
// @Failure      400   {object}  prompt.HTTPError
// @Failure      404   {object}  prompt.HTTPError
// @Router       /api/checkout [post]
func checkoutHandler(carts *cart.Service, assembler *order.Assembler, payments *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CheckoutRequest
		if hasBody(c.Request) && !httpx.BindJSON(c, &req) {
			return
		}
		ctx := c.Request.Context()
		buyer := httpx.UserID(c)

		// Fail fast on a missing client key, before an order row exists.
		session, err := payments.Session(buyer)
		if err != nil {
			httpx.Error(c, err)
			return
		}

		ids := req.PromptIDs
		if len(ids) == 0 {
			view, err := carts.List(ctx, buyer)
			if err != nil {
				httpx.Error(c, err)
				return
			}
			ids = view.PromptIDs()
		}

		o, err := assembler.Assemble(ctx, buyer, ids)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, order.CheckoutResponse{
			OrderID:     o.ID,
			OrderName:   o.Name,
			Amount:      o.TotalAmount,
			ClientKey:   session.ClientKey,
			CustomerKey: session.CustomerKey,
			SuccessURL:  session.SuccessURL,
			FailURL:     session.FailURL,
			Lines:       o.Lines,
		})
	}
}

// listOrdersHandler godoc
// @Summary      Order history of the caller
// @Description  Newest first, with the current status of each order
// @Tags         checkout
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "page size"  default(20)
// @Param        offset  query  int  false  "offset"     default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/orders [get]
func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 20)
		offset := queryInt(c, "offset", 0)
		items, err := repo.ListByBuyer(c.Request.Context(), httpx.UserID(c), limit, offset)
		if err != nil {
			httpx.Error(c, apperr.Persistence("failed to load orders", err))
			return
		}
		if items == nil {
			items = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
	}
}
