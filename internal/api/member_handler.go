package api

import (
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MemberHandler serves the member roster and progress photos.
type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// ListMembers godoc
// @Summary List visible members
// @Description Admins see every member; a member login only sees its linked member.
// @Tags Members
// @Produce json
// @Success 200 {array} domain.Member
// @Failure 503 {object} gin.H "Store not configured"
// @Security BearerAuth
// @Router /members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	session, err := getSessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	visible := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if session.CanView(m.ID) {
			visible = append(visible, m)
		}
	}

	if c.Query("view") == "summary" {
		summaries := make([]MemberSummaryResponse, 0, len(visible))
		for _, m := range visible {
			summaries = append(summaries, mapMemberSummary(m))
		}
		c.JSON(http.StatusOK, summaries)
		return
	}
	c.JSON(http.StatusOK, visible)
}

// GetMember godoc
// @Summary Get one member with workouts
// @Tags Members
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {object} domain.Member
// @Failure 403 {object} gin.H "Member outside of the account"
// @Failure 404 {object} gin.H "Member not found"
// @Security BearerAuth
// @Router /members/{memberId} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	member, err := h.memberService.GetMember(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// AddMember godoc
// @Summary Add a member (admin only)
// @Description Join date defaults to today and the avatar to a generated one.
// @Tags Members
// @Accept json
// @Produce json
// @Param member body CreateMemberRequest true "Member details"
// @Success 201 {object} domain.Member
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "A member with this name already exists"
// @Security BearerAuth
// @Router /members [post]
func (h *MemberHandler) AddMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	member, err := h.memberService.AddMember(c.Request.Context(), req.Name, domain.MemberOptions{
		JoinDate: req.JoinDate,
		Avatar:   req.Avatar,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// DeleteMember godoc
// @Summary Delete a member and all of its workouts (admin only)
// @Tags Members
// @Param memberId path string true "Member ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Member not found"
// @Security BearerAuth
// @Router /members/{memberId} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	if err := h.memberService.DeleteMember(c.Request.Context(), c.Param("memberId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdatePhoto godoc
// @Summary Set the progress photo reference (admin only)
// @Description Accepts either an object key returned by the upload URL endpoint or a plain URL.
// @Tags Members
// @Accept json
// @Param memberId path string true "Member ID"
// @Param photo body UpdatePhotoRequest true "Photo reference"
// @Success 204 "Updated"
// @Security BearerAuth
// @Router /members/{memberId}/photo [put]
func (h *MemberHandler) UpdatePhoto(c *gin.Context) {
	var req UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if err := h.memberService.UpdatePhoto(c.Request.Context(), c.Param("memberId"), req.PhotoURL); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPhotoUploadURL godoc
// @Summary Presigned upload URL for a progress photo (admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Param memberId path string true "Member ID"
// @Param upload body PhotoUploadRequest true "Image content type"
// @Success 200 {object} service.PhotoUploadURL
// @Failure 503 {object} gin.H "Photo storage disabled"
// @Security BearerAuth
// @Router /members/{memberId}/photo/upload-url [post]
func (h *MemberHandler) RequestPhotoUploadURL(c *gin.Context) {
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	upload, err := h.memberService.RequestPhotoUploadURL(c.Request.Context(), c.Param("memberId"), req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// PhotoURL godoc
// @Summary Viewable URL of the progress photo
// @Tags Members
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {object} PhotoURLResponse
// @Failure 404 {object} gin.H "No photo"
// @Security BearerAuth
// @Router /members/{memberId}/photo/url [get]
func (h *MemberHandler) PhotoURL(c *gin.Context) {
	url, err := h.memberService.PhotoViewURL(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PhotoURLResponse{URL: url})
}
