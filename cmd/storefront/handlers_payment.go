package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/prompt-store/internal/apperr"
	"github.com/MikeMC777/prompt-store/internal/httpx"
	"github.com/MikeMC777/prompt-store/internal/order"
	"github.com/MikeMC777/prompt-store/internal/payment"
	"github.com/MikeMC777/prompt-store/internal/prompt"
	"github.com/MikeMC777/prompt-store/internal/purchase"
)

const devGrantLimit = 3

// confirmPaymentHandler godoc
// @Summary      Confirm a payment with the gateway
// @Description  The amount must equal the stored order total
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      payment.ConfirmRequest  true  "Widget redirect parameters"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  prompt.HTTPError
// @Failure      404   {object}  prompt.HTTPError
// @Failure      409   {object}  prompt.HTTPError
// @Router       /api/payment/confirm [post]
func confirmPaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.ConfirmRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		p, err := svc.Confirm(c.Request.Context(), httpx.UserID(c), req)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "payment": p})
	}
}

// failPaymentHandler godoc
// @Summary      Mark a pending order failed
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      payment.FailRequest  true  "Widget failure parameters"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  prompt.HTTPError
// @Failure      409   {object}  prompt.HTTPError
// @Router       /api/payment/fail [post]
func failPaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.FailRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		o, err := svc.Fail(c.Request.Context(), httpx.UserID(c), req)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orderId": o.ID, "status": o.Status})
	}
}

// savePurchaseHandler godoc
// @Summary      Record purchases for a paid order
// @Description  Idempotent: repeating the call saves nothing new
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      purchase.SaveRequest  true  "Purchased prompts"
// @Success      200   {object}  purchase.SaveResponse
// @Failure      400   {object}  prompt.HTTPError
// @Failure      404   {object}  prompt.HTTPError
// @Router       /api/payment/save-purchase [post]
func savePurchaseHandler(rec *purchase.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req purchase.SaveRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		n, err := rec.Record(c.Request.Context(), httpx.UserID(c), req.PromptIDs, req.OrderID, req.TotalAmount)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, purchase.SaveResponse{Success: true, Saved: n, Message: purchase.SavedMessage(n)})
	}
}

// listPurchasesHandler godoc
// @Summary      Purchase history of the caller
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "page size"  default(20)
// @Param        offset  query  int  false  "offset"     default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/purchases [get]
func listPurchasesHandler(rec *purchase.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 20)
		offset := queryInt(c, "offset", 0)
		items, err := rec.History(c.Request.Context(), httpx.UserID(c), limit, offset)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if items == nil {
			items = []purchase.Entry{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
	}
}

// devPurchasesHandler grants the caller a few active prompts it does not own
// yet, recorded under a TEST_ORDER_ id at catalog price.
func devPurchasesHandler(prompts *prompt.Service, owners prompt.Ownership, rec *purchase.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		buyer := httpx.UserID(c)

		items, err := prompts.Browse(ctx, prompt.Query{Limit: 100}.Normalize())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		var ids []string
		for _, p := range items {
			if len(ids) == devGrantLimit {
				break
			}
			owned, err := owners.HasPurchased(ctx, buyer, p.ID)
			if err != nil {
				httpx.Error(c, apperr.Persistence("failed to check purchases", err))
				return
			}
			if owned || p.Price <= 0 {
				continue
			}
			ids = append(ids, p.ID)
		}
		if len(ids) == 0 {
			httpx.Error(c, apperr.NotFound("no prompts left to grant"))
			return
		}

		orderID := "TEST_" + order.NewOrderID()
		n, err := rec.Grant(ctx, buyer, ids, orderID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		log.Printf("[dev] buyer=%s granted %s", buyer, strings.Join(ids, ","))
		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"orderId":   orderID,
			"promptIds": ids,
			"saved":     n,
			"message":   purchase.SavedMessage(n),
		})
	}
}
