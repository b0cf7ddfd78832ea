package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/middleware"
	"site-catalog/internal/service"
)

func (h *Handler) ListLLMSettings(c *gin.Context) {
	items, err := h.svc.LLM.List(c.Request.Context(), middleware.Scope(c).TenantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateLLMSetting(c *gin.Context) {
	var in service.LLMInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := h.svc.LLM.Create(c.Request.Context(), middleware.Scope(c).TenantID, in)
	h.record("llmSetting", "create", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateLLMSetting handles PUT with the id as ?id= or "_id"/"id" in the body.
func (h *Handler) UpdateLLMSetting(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var in service.LLMInput
	if err := json.Unmarshal(body, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id := c.Query("id")
	if id == "" {
		id = idFromBody(body)
	}
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	item, err := h.svc.LLM.Update(c.Request.Context(), middleware.Scope(c).TenantID, id, in)
	h.record("llmSetting", "update", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) DeleteLLMSetting(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		body, _ := c.GetRawData()
		id = idFromBody(body)
	}
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	err := h.svc.LLM.Delete(c.Request.Context(), middleware.Scope(c).TenantID, id)
	h.record("llmSetting", "delete", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
