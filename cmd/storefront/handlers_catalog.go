package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/prompt-store/internal/httpx"
	"github.com/MikeMC777/prompt-store/internal/prompt"
)

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func listQuery(c *gin.Context) prompt.Query {
	return prompt.Query{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Limit:    queryInt(c, "limit", 20),
		Offset:   queryInt(c, "offset", 0),
	}.Normalize()
}

// listPromptsHandler godoc
// @Summary      List active prompts
// @Tags         prompts
// @Produce      json
// @Param        q         query  string  false  "search in title and description"
// @Param        category  query  string  false  "category filter"
// @Param        limit     query  int     false  "page size"  default(20)
// @Param        offset    query  int     false  "offset"     default(0)
// @Success      200  {object}  prompt.ListResponse
// @Failure      500  {object}  prompt.HTTPError
// @Router       /api/prompts [get]
func listPromptsHandler(svc *prompt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := listQuery(c)
		items, err := svc.Browse(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, prompt.ListResponse{
			Q: q.Q, Category: q.Category, Limit: q.Limit, Offset: q.Offset, Items: items,
		})
	}
}

// getPromptHandler godoc
// @Summary      Get a prompt
// @Description  prompt_text is only returned to buyers of the prompt
// @Tags         prompts
// @Produce      json
// @Param        id   path      string  true  "Prompt ID"
// @Success      200  {object}  prompt.Prompt
// @Failure      404  {object}  prompt.HTTPError
// @Router       /api/prompts/{id} [get]
func getPromptHandler(svc *prompt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.View(c.Request.Context(), c.Param("id"), httpx.UserID(c))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// adminListPromptsHandler godoc
// @Summary      List all prompts, inactive included
// @Tags         admin
// @Produce      json
// @Security     AdminKey
// @Param        q       query  string  false  "search"
// @Param        limit   query  int     false  "page size"  default(20)
// @Param        offset  query  int     false  "offset"     default(0)
// @Success      200  {object}  prompt.ListResponse
// @Router       /api/admin/prompts [get]
func adminListPromptsHandler(svc *prompt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := listQuery(c)
		items, err := svc.AdminList(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, prompt.ListResponse{
			Q: q.Q, Category: q.Category, Limit: q.Limit, Offset: q.Offset, Items: items,
		})
	}
}

// adminGetPromptHandler godoc
// @Summary      Get a prompt with its body
// @Tags         admin
// @Produce      json
// @Security     AdminKey
// @Param        id   path      string  true  "Prompt ID"
// @Success      200  {object}  prompt.Prompt
// @Failure      404  {object}  prompt.HTTPError
// @Router       /api/admin/prompts/{id} [get]
func adminGetPromptHandler(svc *prompt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.AdminGet(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// adminCreatePromptHandler godoc
// @Summary      Create a prompt
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     AdminKey
// @Param        body  body      prompt.CreatePromptRequest  true  "New prompt"
// @Success      201   {object}  prompt.Prompt
// @Failure      400   {object}  prompt.HTTPError
// @Router       /api/admin/prompts [post]
func adminCreatePromptHandler(svc *prompt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prompt.CreatePromptRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		p, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// adminUpdatePromptHandler godoc
// @Summary      Partially update a prompt
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     AdminKey
// @Param        id    path      string                      true  "Prompt ID"
// @Param        body  body      prompt.UpdatePromptRequest  true  "Fields to change"
// @Success      200   {object}  prompt.Prompt
// @Failure      400   {object}  prompt.HTTPError
// @Failure      404   {object}  prompt.HTTPError
// @Router       /api/admin/prompts/{id} [put]
func adminUpdatePromptHandler(svc *prompt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prompt.UpdatePromptRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		p, err := svc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// adminDeletePromptHandler godoc
// @Summary      Deactivate a prompt
// @Description  Soft delete: buyers keep access to what they purchased
// @Tags         admin
// @Produce      json
// @Security     AdminKey
// @Param        id   path      string  true  "Prompt ID"
// @Success      200  {object}  prompt.Prompt
// @Failure      404  {object}  prompt.HTTPError
// @Router       /api/admin/prompts/{id} [delete]
func adminDeletePromptHandler(svc *prompt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Deactivate(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
