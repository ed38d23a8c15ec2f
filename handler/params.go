package handler

import (
	"strconv"

	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultLimit = 20

// pageParams reads the limit and opaque cursor query parameters. The limit
// is range-checked here so a bad request never reaches the database.
func pageParams[C any](c *gin.Context) (*C, int, bool) {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return nil, 0, false
		}
		limit = parsed
	}
	if err := pagination.ValidateLimit(limit); err != nil {
		badRequest(c, err.Error())
		return nil, 0, false
	}

	var cursor *C
	if token := c.Query("cursor"); token != "" {
		decoded, err := pagination.Decode[C](token)
		if err != nil {
			badRequest(c, "malformed cursor")
			return nil, 0, false
		}
		cursor = decoded
	}
	return cursor, limit, true
}

// listResponse is the wire form of a page: the next cursor travels as an
// opaque token.
type listResponse[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor"`
}

func toListResponse[T any, C any](page pagination.Page[T, C]) (listResponse[T], error) {
	resp := listResponse[T]{Items: page.Items}
	if resp.Items == nil {
		resp.Items = []T{}
	}
	if page.NextCursor != nil {
		token, err := pagination.Encode(page.NextCursor)
		if err != nil {
			return resp, err
		}
		resp.NextCursor = &token
	}
	return resp, nil
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(400, gin.H{"error": msg})
}
