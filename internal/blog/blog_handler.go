package blog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshu-sajeev/vid2blog/common"
	"github.com/joshu-sajeev/vid2blog/internal/dto"
	"github.com/joshu-sajeev/vid2blog/middleware"
)

type BlogHandler struct {
	service BlogServiceInterface
}

func NewBlogHandler(s BlogServiceInterface) *BlogHandler {
	return &BlogHandler{service: s}
}

var _ BlogHandlerInterface = (*BlogHandler)(nil)

// Convert handles HTTP requests to submit a YouTube URL for conversion.
// It binds and validates the request body, delegates to the BlogService,
// and returns HTTP 201 with the new blog and job ids.
func (h *BlogHandler) Convert(c *gin.Context) {
	var req dto.ConvertRequestDTO

	if !middleware.Bind(c, &req) {
		c.Abort()
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Get handles HTTP requests to fetch one blog record by its ID.
func (h *BlogHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, common.APIError{Message: "Invalid ID"})
		return
	}

	resp, err := h.service.GetBlogByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles HTTP requests to retrieve all blog records, newest first.
func (h *BlogHandler) List(c *gin.Context) {
	blogs, err := h.service.ListBlogs(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, blogs)
}

// Status handles HTTP requests for the combined record + queue view of a
// job.
func (h *BlogHandler) Status(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, common.APIError{Message: "Invalid ID"})
		return
	}

	status, err := h.service.GetJobStatus(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}
