package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/services"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type LikeController struct {
	likeService *services.LikeService
}

func NewLikeController(s *services.LikeService) *LikeController {
	return &LikeController{likeService: s}
}

// POST /api/v1/properties/{id}/like
func (c *LikeController) LikeHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	if err := c.likeService.Like(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.LikeResponse{Message: "Property liked", Liked: true})
}

// DELETE /api/v1/properties/{id}/like
func (c *LikeController) UnlikeHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	if err := c.likeService.Unlike(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.LikeResponse{Message: "Property unliked", Liked: false})
}

// GET /api/v1/properties/{id}/like
func (c *LikeController) IsLikedHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	liked, err := c.likeService.IsLiked(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.LikeResponse{Liked: liked})
}

// GET /api/v1/likes/counts?ids=a,b
func (c *LikeController) LikeCountsHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if strings.TrimSpace(raw) == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "ids is required", nil)
		return
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid property id: "+part, nil, err)
			return
		}
		ids = append(ids, id)
	}

	counts, err := c.likeService.Counts(r.Context(), ids)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.LikeCountsResponse{Counts: counts})
}

// GET /api/v1/likes/my
func (c *LikeController) MyLikesHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.likeService.ListLiked(r.Context(), caller)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.LikedPropertiesResponse{Count: len(list), Properties: list})
}
