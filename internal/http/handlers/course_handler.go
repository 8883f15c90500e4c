// Course HTTP handlers, the gateway dispatch layer.
//
// One handler per backend RPC operation:
//   - POST   /course/create               → CreateCourse
//   - GET    /course/get-all              → FindAllCourses
//   - GET    /course/get/:id              → FindOneCourse
//   - PUT    /course/update/:id           → UpdateCourse
//   - DELETE /course/delete/:id           → RemoveCourse
//   - POST   /course/set-course-files     → SetCourseFile
//   - DELETE /course/remove-course-files  → RemoveFilesFromCourse
//
// Handlers are transport-thin: they validate identity parameters, forward
// the body as the RPC payload, and return the RPC response verbatim. They do
// not inspect RPC status codes on failure: by default every backend error
// surfaces as a client-error response carrying the backend's message, the
// backend having already decided severity. Status-aware remapping is an
// explicit opt-in (see StatusAware).
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/edulab/go-course-platform/internal/http/middleware"
	"github.com/edulab/go-course-platform/internal/rpc"
)

// Handlers groups the gateway's course endpoints around an already-resolved
// backend client. The client is injected at construction; there is no lazy
// global handle.
type Handlers struct {
	client rpc.CourseClient

	// statusAware switches the failure path from the faithful "every
	// backend error is a 4xx" collapse to per-status HTTP codes
	// (404 for NotFound, 409 for AlreadyExists, 502 otherwise).
	statusAware bool
}

// Option configures a Handlers instance.
type Option func(*Handlers)

// StatusAware enables per-status HTTP remapping of RPC failures.
func StatusAware(enabled bool) Option {
	return func(h *Handlers) { h.statusAware = enabled }
}

// New constructs the gateway handlers bound to the given backend client.
func New(client rpc.CourseClient, opts ...Option) *Handlers {
	h := &Handlers{client: client}
	for _, o := range opts {
		o(h)
	}
	return h
}

//
// DTOs
//

// CreateCourseRequest is the JSON payload for creating a course. Additional
// descriptive attributes are forwarded untouched; only title is required.
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255" example:"CS101"`
	Description string `json:"description,omitempty" example:"Introductory computer science"`
	Category    string `json:"category,omitempty" example:"computer-science"`
	Level       string `json:"level,omitempty" example:"intro"`
}

// SetCourseFilesRequest is the JSON payload for both file-relation
// mutations: {courseId, fileIds}.
type SetCourseFilesRequest struct {
	CourseID int64   `json:"courseId" binding:"required,gt=0" example:"1"`
	FileIDs  []int64 `json:"fileIds" binding:"required,min=1,dive,gt=0"`
}

//
// Helpers
//

// pathID validates the :id path segment as a well-formed positive integer.
// Malformed input fails the request immediately; no RPC call is issued.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "course id must be a positive integer")
		return 0, false
	}
	return id, true
}

// rpcFail surfaces an RPC failure as an HTTP error.
//
// Default behavior: a flat 400 carrying the RPC error message, regardless of
// the backend status. The backend already distinguished severity and the
// gateway trusts it. With statusAware enabled the known statuses get their
// HTTP counterparts and anything else becomes a 502.
func (h *Handlers) rpcFail(c *gin.Context, err error) {
	st := status.Convert(err)
	middleware.ObserveUpstreamFailure(st.Code().String())
	if !h.statusAware {
		fail(c, http.StatusBadRequest, ErrCodeUpstream, st.Message())
		return
	}
	switch st.Code() {
	case codes.NotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, st.Message())
	case codes.AlreadyExists:
		fail(c, http.StatusConflict, ErrCodeConflict, st.Message())
	case codes.InvalidArgument:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, st.Message())
	default:
		fail(c, http.StatusBadGateway, ErrCodeBadGateway, st.Message())
	}
}

// forwardBody converts the bound JSON body into the RPC payload.
func forwardBody(c *gin.Context) (*structpb.Struct, bool) {
	body := map[string]any{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return nil, false
		}
	}
	payload, err := structpb.NewStruct(body)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unsupported JSON body")
		return nil, false
	}
	return payload, true
}

// idPayload builds the single-field {id} RPC request.
func idPayload(c *gin.Context, id int64) (*structpb.Struct, bool) {
	payload, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
		return nil, false
	}
	return payload, true
}

//
// Handlers
//

// CreateCourse godoc
// @ID          createCourse
// @Summary     Create a course
// @Description Creates a course with a unique title and returns it.
// @Tags        Courses
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateCourseRequest  true  "Create course payload"
// @Success     201  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /course/create [post]
func (h *Handlers) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1-255 chars)")
		return
	}

	payload, err := structpb.NewStruct(map[string]any{
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"level":       req.Level,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
		return
	}

	resp, err := h.client.CreateCourse(requestCtx(c), payload)
	if err != nil {
		h.rpcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp.AsMap())
}

// ListCourses godoc
// @ID          listCourses
// @Summary     List all courses
// @Tags        Courses
// @Produce     json
// @Success     200  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /course/get-all [get]
func (h *Handlers) ListCourses(c *gin.Context) {
	resp, err := h.client.FindAllCourses(requestCtx(c), &structpb.Struct{})
	if err != nil {
		h.rpcFail(c, err)
		return
	}
	ok(c, http.StatusOK, resp.AsMap())
}

// GetCourse godoc
// @ID          getCourse
// @Summary     Fetch one course by id
// @Tags        Courses
// @Produce     json
// @Param       id  path  int  true  "Course ID"  minimum(1)
// @Success     200  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /course/get/{id} [get]
func (h *Handlers) GetCourse(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	payload, built := idPayload(c, id)
	if !built {
		return
	}

	resp, err := h.client.FindOneCourse(requestCtx(c), payload)
	if err != nil {
		h.rpcFail(c, err)
		return
	}
	ok(c, http.StatusOK, resp.AsMap())
}

// UpdateCourse godoc
// @ID          updateCourse
// @Summary     Partially update a course
// @Description Merges the supplied fields into the course; absent fields keep their values.
// @Tags        Courses
// @Accept      json
// @Produce     json
// @Param       id    path  int             true  "Course ID"  minimum(1)
// @Param       body  body  map[string]any  true  "Partial course fields"
// @Success     200  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /course/update/{id} [put]
func (h *Handlers) UpdateCourse(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	payload, built := forwardBody(c)
	if !built {
		return
	}
	payload.Fields["id"] = structpb.NewNumberValue(float64(id))

	resp, err := h.client.UpdateCourse(requestCtx(c), payload)
	if err != nil {
		h.rpcFail(c, err)
		return
	}
	ok(c, http.StatusOK, resp.AsMap())
}

// DeleteCourse godoc
// @ID          deleteCourse
// @Summary     Delete a course
// @Description Deletes the course and returns its pre-deletion snapshot.
// @Tags        Courses
// @Produce     json
// @Param       id  path  int  true  "Course ID"  minimum(1)
// @Success     200  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /course/delete/{id} [delete]
func (h *Handlers) DeleteCourse(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	payload, built := idPayload(c, id)
	if !built {
		return
	}

	resp, err := h.client.RemoveCourse(requestCtx(c), payload)
	if err != nil {
		h.rpcFail(c, err)
		return
	}
	ok(c, http.StatusOK, resp.AsMap())
}

// SetCourseFiles godoc
// @ID          setCourseFiles
// @Summary     Attach files to a course
// @Description Associates the file ids with the course (union, deduplicated by id).
// @Tags        Courses
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SetCourseFilesRequest  true  "Course/file association"
// @Success     201  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /course/set-course-files [post]
func (h *Handlers) SetCourseFiles(c *gin.Context) {
	payload, built := bindCourseFiles(c)
	if !built {
		return
	}

	resp, err := h.client.SetCourseFile(requestCtx(c), payload)
	if err != nil {
		h.rpcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp.AsMap())
}

// RemoveCourseFiles godoc
// @ID          removeCourseFiles
// @Summary     Detach files from a course
// @Description Removes the file ids from the course, all-or-nothing.
// @Tags        Courses
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SetCourseFilesRequest  true  "Course/file association"
// @Success     200  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /course/remove-course-files [delete]
func (h *Handlers) RemoveCourseFiles(c *gin.Context) {
	payload, built := bindCourseFiles(c)
	if !built {
		return
	}

	resp, err := h.client.RemoveFilesFromCourse(requestCtx(c), payload)
	if err != nil {
		h.rpcFail(c, err)
		return
	}
	ok(c, http.StatusOK, resp.AsMap())
}

// bindCourseFiles validates and converts a {courseId, fileIds} body.
func bindCourseFiles(c *gin.Context) (*structpb.Struct, bool) {
	var req SetCourseFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "courseId and a non-empty fileIds list are required")
		return nil, false
	}
	ids := make([]any, len(req.FileIDs))
	for i, id := range req.FileIDs {
		ids[i] = id
	}
	payload, err := structpb.NewStruct(map[string]any{
		"courseId": req.CourseID,
		"fileIds":  ids,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
		return nil, false
	}
	return payload, true
}

// requestCtx returns the request context for RPC propagation.
func requestCtx(c *gin.Context) context.Context {
	return c.Request.Context()
}
