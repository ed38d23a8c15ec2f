package handler

import (
	"net/http"

	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/gin-gonic/gin"
)

func (a *API) Subscribe(c *gin.Context) {
	creatorID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	user := currentUser(c)
	subscription, err := a.Subscriptions.Subscribe(c.Request.Context(), user.ID, creatorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subscription)
}

func (a *API) Unsubscribe(c *gin.Context) {
	creatorID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	user := currentUser(c)
	if err := a.Subscriptions.Unsubscribe(c.Request.Context(), user.ID, creatorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (a *API) ListSubscriptions(c *gin.Context) {
	cursor, limit, ok := pageParams[pagination.TimeCursor](c)
	if !ok {
		return
	}

	user := currentUser(c)
	page, err := a.Subscriptions.List(c.Request.Context(), user.ID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := toListResponse(page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
